package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	pkgdb "github.com/unowned-ai/memos/pkg/db"
	"github.com/unowned-ai/memos/pkg/memos"
	"github.com/unowned-ai/memos/pkg/utils"
	"github.com/unowned-ai/memos/pkg/version"
)

type exportMemo struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"-"`
	Category  string    `json:"category" yaml:"category"`
	Tags      []string  `json:"tags" yaml:"tags,flow"`
	CreatedAt time.Time `json:"createdAt" yaml:"created"`
	UpdatedAt time.Time `json:"updatedAt" yaml:"updated"`
}

type exportData struct {
	ExportedAt time.Time    `json:"exportedAt"`
	Version    string       `json:"version"`
	Memos      []exportMemo `json:"memos"`
}

func toExport(m memos.Memo) exportMemo {
	return exportMemo{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		Category:  m.Category,
		Tags:      m.Tags,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export memos",
	Long: `Export memos as one JSON document, as markdown files with YAML frontmatter,
or as a single HTML page.

With --format md the output is a directory (default "export"); the other
formats write to --output or stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		ref, _ := cmd.Flags().GetString("memo")

		dbConn, _, err := openDB()
		if err != nil {
			return err
		}
		defer pkgdb.CloseDBConnection(dbConn)

		var list []memos.Memo
		if ref != "" {
			memo, err := findMemo(cmd.Context(), dbConn, ref)
			if err != nil {
				return err
			}
			list = []memos.Memo{memo}
		} else {
			list, err = memos.ListMemos(cmd.Context(), dbConn, memos.ListQuery{})
			if err != nil {
				return fmt.Errorf("failed to list memos: %w", err)
			}
		}

		switch format {
		case "json":
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error { return exportJSON(w, list) })
		case "html":
			return writeOutput(cmd.OutOrStdout(), output, func(w io.Writer) error { return exportHTML(w, list) })
		case "md":
			if output == "" {
				output = "export"
			}
			if err := exportMarkdown(output, list); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), success(fmt.Sprintf("Exported %d memos to %s", len(list), output)))
			return nil
		default:
			return fmt.Errorf("unknown format: %s (want json, md or html)", format)
		}
	},
}

// writeOutput runs write against stdout for "" or "-", else against a new
// file at path.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) error {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func exportJSON(w io.Writer, list []memos.Memo) error {
	data := exportData{
		ExportedAt: time.Now().UTC(),
		Version:    version.Version,
		Memos:      make([]exportMemo, 0, len(list)),
	}
	for _, m := range list {
		data.Memos = append(data.Memos, toExport(m))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// markdownDocument is the memo body preceded by YAML frontmatter.
func markdownDocument(m memos.Memo) ([]byte, error) {
	frontmatter, err := yaml.Marshal(toExport(m))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(frontmatter)
	buf.WriteString("---\n\n")
	buf.WriteString(m.Content)
	if !strings.HasSuffix(m.Content, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func exportMarkdown(dir string, list []memos.Memo) error {
	if err := utils.EnsureDir(dir); err != nil {
		return err
	}
	for _, m := range list {
		doc, err := markdownDocument(m)
		if err != nil {
			return fmt.Errorf("failed to encode memo %s: %w", m.ShortID(), err)
		}
		name := fmt.Sprintf("%s-%s.md", sanitizeFilename(m.Title), m.ShortID())
		if err := os.WriteFile(filepath.Join(dir, name), doc, 0644); err != nil {
			return err
		}
	}
	return nil
}

func exportHTML(w io.Writer, list []memos.Memo) error {
	md := goldmark.New()
	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Memos</title>\n</head>\n<body>\n")
	for _, m := range list {
		info := memos.LookupCategory(m.Category)
		fmt.Fprintf(&buf, "<article id=\"memo-%s\">\n<h1>%s</h1>\n", html.EscapeString(m.ID), html.EscapeString(m.Title))
		fmt.Fprintf(&buf, "<p class=\"meta\"><span class=\"category category-%s\">%s</span> <time datetime=\"%s\">%s</time></p>\n",
			html.EscapeString(info.Code), html.EscapeString(info.Label),
			memos.FormatTimestamp(m.UpdatedAt), m.UpdatedAt.UTC().Format("January 2, 2006"))
		if err := md.Convert([]byte(m.Content), &buf); err != nil {
			return fmt.Errorf("failed to convert memo %s: %w", m.ShortID(), err)
		}
		if len(m.Tags) > 0 {
			buf.WriteString("<ul class=\"tags\">\n")
			for _, t := range m.Tags {
				fmt.Fprintf(&buf, "<li>#%s</li>\n", html.EscapeString(t))
			}
			buf.WriteString("</ul>\n")
		}
		buf.WriteString("</article>\n")
	}
	buf.WriteString("</body>\n</html>\n")
	_, err := w.Write(buf.Bytes())
	return err
}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

func sanitizeFilename(title string) string {
	name := strings.Trim(unsafeFilename.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if name == "" {
		return "memo"
	}
	if r := []rune(name); len(r) > 60 {
		name = strings.TrimRight(string(r[:60]), "-")
	}
	return name
}

func initExportCmd() {
	exportCmd.Flags().StringP("format", "f", "json", "Export format (json, md, html)")
	exportCmd.Flags().StringP("output", "o", "", "Output file, or directory for md")
	exportCmd.Flags().String("memo", "", "Export a single memo (ID or prefix)")
}
