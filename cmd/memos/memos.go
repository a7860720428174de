package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/memos"
	"github.com/unowned-ai/memos/pkg/tui"
	"github.com/unowned-ai/memos/pkg/utils"
)

var addCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a memo",
	Long: `Add a memo. The body comes from --content, from stdin when --content is "-",
or from $EDITOR when --edit is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := strings.TrimSpace(strings.Join(args, " "))
		content, _ := cmd.Flags().GetString("content")
		category, _ := cmd.Flags().GetString("category")
		tagsStr, _ := cmd.Flags().GetString("tags")
		edit, _ := cmd.Flags().GetBool("edit")

		if category == "" {
			category = cfg.UI.DefaultCategory
		}
		if err := memos.ValidateCategory(category); err != nil {
			return err
		}

		switch {
		case content == "-":
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read content from stdin: %w", err)
			}
			content = string(data)
		case edit:
			edited, err := utils.EditText(content)
			if err != nil {
				return err
			}
			content = edited
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		memo, err := memos.CreateMemo(cmd.Context(), dbConn, memos.NewMemo{
			Title:    title,
			Content:  content,
			Category: category,
			Tags:     memos.ParseTagList(tagsStr),
		})
		if err != nil {
			return fmt.Errorf("failed to create memo: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("Created memo %s %q", memo.ShortID(), memo.Title)))
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List memos as cards",
	Long:    `Print memos as cards, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		category, _ := cmd.Flags().GetString("category")
		tag, _ := cmd.Flags().GetString("tag")
		limit, _ := cmd.Flags().GetInt("limit")
		search, _ := cmd.Flags().GetString("search")

		if category != "" {
			if err := memos.ValidateCategory(category); err != nil {
				return err
			}
		}

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		q := memos.ListQuery{Category: category, Tag: memos.NormalizeTag(tag), Limit: limit}
		var list []memos.Memo
		if search != "" {
			list, err = memos.SearchMemos(cmd.Context(), dbConn, search, q)
		} else {
			list, err = memos.ListMemos(cmd.Context(), dbConn, q)
		}
		if err != nil {
			return fmt.Errorf("failed to list memos: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(out, "No memos found.")
			return nil
		}

		frame, err := printFrame()
		if err != nil {
			return err
		}
		for _, m := range list {
			card := tui.NewCard(m, func() {}, func(memos.Memo) {}, func(string) {})
			view, _, err := card.Render(frame, false)
			if err != nil {
				return fmt.Errorf("failed to render memo %s: %w", m.ShortID(), err)
			}
			fmt.Fprintf(out, "%s\n%s\n", faint(m.ShortID()), view)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id-prefix>",
	Short: "Show a memo in full",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		memo, err := findMemo(cmd.Context(), dbConn, args[0])
		if err != nil {
			return err
		}

		frame, err := printFrame()
		if err != nil {
			return err
		}
		viewer := tui.NewViewer(memo, func() {}, func(memos.Memo) {}, func(string) {})
		view, err := viewer.RenderPanel(frame)
		if err != nil {
			return fmt.Errorf("failed to render memo: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), view)
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id-prefix>",
	Short: "Edit a memo",
	Long: `Change a memo's title, category or tags with flags. Without any of them the
body opens in $EDITOR.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		memo, err := findMemo(cmd.Context(), dbConn, args[0])
		if err != nil {
			return err
		}

		var upd memos.MemoUpdate
		flags := cmd.Flags()
		if flags.Changed("title") {
			title, _ := flags.GetString("title")
			upd.Title = &title
		}
		if flags.Changed("category") {
			category, _ := flags.GetString("category")
			if err := memos.ValidateCategory(category); err != nil {
				return err
			}
			upd.Category = &category
		}
		if flags.Changed("tags") {
			tagsStr, _ := flags.GetString("tags")
			tags := memos.ParseTagList(tagsStr)
			upd.Tags = &tags
		}
		if upd == (memos.MemoUpdate{}) {
			content, err := utils.EditText(memo.Content)
			if err != nil {
				return err
			}
			if content == memo.Content {
				fmt.Fprintln(cmd.OutOrStdout(), "No changes.")
				return nil
			}
			upd.Content = &content
		}

		updated, err := memos.UpdateMemo(cmd.Context(), dbConn, memo.ID, upd)
		if err != nil {
			return fmt.Errorf("failed to update memo: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("Updated memo %s %q", updated.ShortID(), updated.Title)))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <id-prefix>",
	Short: "Remove a memo",
	Long:  `Delete a memo. Asks for confirmation unless --force is given.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		memo, err := findMemo(cmd.Context(), dbConn, args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if force {
			return removeMemo(cmd.Context(), dbConn, memo, out)
		}

		// The card's delete affordance owns the confirmation.
		var deleteErr error
		deleted := false
		card := tui.NewCard(memo, func() {}, func(memos.Memo) {}, func(string) {
			deleted = true
			deleteErr = removeMemo(cmd.Context(), dbConn, memo, out)
		}, tui.WithAsker(tui.PromptAsker(cmd.InOrStdin(), out)))

		scene := tui.NewScene()
		card.Bind(scene)
		fmt.Fprintf(out, "%s %q\n", faint(memo.ShortID()), memo.Title)
		scene.Dispatch(card.DeleteZone())

		if !deleted {
			fmt.Fprintln(out, "Cancelled.")
		}
		return deleteErr
	},
}

func removeMemo(ctx context.Context, dbConn *sql.DB, memo memos.Memo, out io.Writer) error {
	if err := memos.DeleteMemo(ctx, dbConn, memo.ID); err != nil {
		return fmt.Errorf("failed to delete memo: %w", err)
	}
	fmt.Fprintln(out, success(fmt.Sprintf("Deleted memo %s", memo.ShortID())))
	return nil
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with their memo counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		tags, err := memos.ListTags(cmd.Context(), dbConn)
		if err != nil {
			return fmt.Errorf("failed to list tags: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(tags) == 0 {
			fmt.Fprintln(out, "No tags yet.")
			return nil
		}
		for _, t := range tags {
			fmt.Fprintf(out, "#%-24s %s\n", t.Tag, faint(fmt.Sprint(t.Count)))
		}
		return nil
	},
}

// findMemo resolves a full ID or a unique ID prefix.
func findMemo(ctx context.Context, dbConn *sql.DB, ref string) (memos.Memo, error) {
	memo, err := memos.GetMemo(ctx, dbConn, ref)
	if errors.Is(err, memos.ErrMemoNotFound) {
		memo, err = memos.GetMemoByPrefix(ctx, dbConn, ref)
	}
	if errors.Is(err, memos.ErrMemoNotFound) {
		return memos.Memo{}, fmt.Errorf("memo not found: %s", ref)
	}
	if err != nil {
		return memos.Memo{}, fmt.Errorf("failed to get memo: %w", err)
	}
	return memo, nil
}

func categoryFlagUsage() string {
	return fmt.Sprintf("Category (%s)", strings.Join(memos.Categories(), ", "))
}

func initMemoCmds() {
	addCmd.Flags().StringP("content", "c", "", `Markdown body, or "-" to read it from stdin`)
	addCmd.Flags().String("category", "", categoryFlagUsage()+" (default: config ui.default_category)")
	addCmd.Flags().StringP("tags", "t", "", "Comma-separated tags")
	addCmd.Flags().BoolP("edit", "e", false, "Write the body in $EDITOR")

	listCmd.Flags().String("category", "", "Only memos in this category")
	listCmd.Flags().String("tag", "", "Only memos carrying this tag")
	listCmd.Flags().IntP("limit", "n", 0, "Maximum number of memos (0 = all)")
	listCmd.Flags().StringP("search", "s", "", "Fuzzy search titles and tags, substring search bodies")

	editCmd.Flags().String("title", "", "New title")
	editCmd.Flags().String("category", "", categoryFlagUsage())
	editCmd.Flags().StringP("tags", "t", "", "Replace the tags (comma-separated)")

	rmCmd.Flags().BoolP("force", "f", false, "Skip confirmation")

	initExportCmd()
	rootCmd.AddCommand(addCmd, listCmd, showCmd, editCmd, rmCmd, tagsCmd, exportCmd)
}
