package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/memos/pkg/memos"
)

const defaultListLimit = 50

// RegisterCreateMemoTool registers the create_memo tool.
func RegisterCreateMemoTool(s *server.MCPServer, db *sql.DB) {
	createMemo := mcp.NewTool("create_memo",
		mcp.WithDescription("Creates a new memo with a markdown body."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Title of the memo.")),
		mcp.WithString("content", mcp.Description("Markdown content of the memo.")),
		mcp.WithString("category", mcp.Description("One of personal, work, study, idea, other. Defaults to other."),
			mcp.Enum(memos.Categories()...)),
		mcp.WithArray("tags", mcp.Description("Optional list of tags, in display order."),
			mcp.Items(map[string]any{"type": "string"})),
	)
	s.AddTool(createMemo, createMemoHandler(db))
}

func createMemoHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := request.RequireString("title")
		if err != nil || strings.TrimSpace(title) == "" {
			return mcp.NewToolResultError("'title' parameter is required and must be a non-empty string."), nil
		}
		category := request.GetString("category", memos.DefaultCategory)
		if err := memos.ValidateCategory(category); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		tags, _ := tagsArg(request)

		memo, err := memos.CreateMemo(ctx, db, memos.NewMemo{
			Title:    title,
			Content:  request.GetString("content", ""),
			Category: category,
			Tags:     tags,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create memo: %v", err)), nil
		}
		return jsonResult(toView(memo))
	}
}

// RegisterListMemosTool registers the list_memos tool.
func RegisterListMemosTool(s *server.MCPServer, db *sql.DB) {
	listMemos := mcp.NewTool("list_memos",
		mcp.WithDescription("Lists memos, most recently updated first."),
		mcp.WithString("category", mcp.Description("Only memos in this category."), mcp.Enum(memos.Categories()...)),
		mcp.WithString("tag", mcp.Description("Only memos carrying this tag.")),
		mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum number of memos to return (default %d).", defaultListLimit))),
	)
	s.AddTool(listMemos, listMemosHandler(db))
}

func listMemosHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := memos.ListQuery{
			Category: request.GetString("category", ""),
			Tag:      memos.NormalizeTag(request.GetString("tag", "")),
			Limit:    request.GetInt("limit", defaultListLimit),
		}
		if q.Category != "" {
			if err := memos.ValidateCategory(q.Category); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
		}
		list, err := memos.ListMemos(ctx, db, q)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list memos: %v", err)), nil
		}
		return jsonResult(toViews(list))
	}
}

// RegisterGetMemoTool registers the get_memo tool.
func RegisterGetMemoTool(s *server.MCPServer, db *sql.DB) {
	getMemo := mcp.NewTool("get_memo",
		mcp.WithDescription("Retrieves one memo by its ID or a unique ID prefix."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID or unique prefix.")),
	)
	s.AddTool(getMemo, getMemoHandler(db))
}

func getMemoHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil || id == "" {
			return mcp.NewToolResultError("'id' parameter is required."), nil
		}
		memo, err := resolveMemo(ctx, db, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving memo '%s': %v", id, err)), nil
		}
		if memo == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Memo '%s' not found.", id)), nil
		}
		return jsonResult(toView(*memo))
	}
}

// RegisterUpdateMemoTool registers the update_memo tool.
func RegisterUpdateMemoTool(s *server.MCPServer, db *sql.DB) {
	updateMemo := mcp.NewTool("update_memo",
		mcp.WithDescription("Updates a memo. Only the fields provided are changed; tags, when given, replace the current list."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID or unique prefix.")),
		mcp.WithString("title", mcp.Description("New title.")),
		mcp.WithString("content", mcp.Description("New markdown content.")),
		mcp.WithString("category", mcp.Description("New category."), mcp.Enum(memos.Categories()...)),
		mcp.WithArray("tags", mcp.Description("New tag list."), mcp.Items(map[string]any{"type": "string"})),
	)
	s.AddTool(updateMemo, updateMemoHandler(db))
}

func updateMemoHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil || id == "" {
			return mcp.NewToolResultError("'id' parameter is required."), nil
		}

		var upd memos.MemoUpdate
		if title, ok := stringArg(request, "title"); ok {
			if strings.TrimSpace(title) == "" {
				return mcp.NewToolResultError("'title' cannot be empty if provided."), nil
			}
			upd.Title = &title
		}
		if content, ok := stringArg(request, "content"); ok {
			upd.Content = &content
		}
		if category, ok := stringArg(request, "category"); ok {
			if err := memos.ValidateCategory(category); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			upd.Category = &category
		}
		if tags, ok := tagsArg(request); ok {
			upd.Tags = &tags
		}
		if upd == (memos.MemoUpdate{}) {
			return mcp.NewToolResultError("No fields provided for update. Provide title, content, category or tags."), nil
		}

		memo, err := resolveMemo(ctx, db, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving memo '%s': %v", id, err)), nil
		}
		if memo == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Memo '%s' not found.", id)), nil
		}

		updated, err := memos.UpdateMemo(ctx, db, memo.ID, upd)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update memo: %v", err)), nil
		}
		return jsonResult(toView(updated))
	}
}

// RegisterDeleteMemoTool registers the delete_memo tool.
func RegisterDeleteMemoTool(s *server.MCPServer, db *sql.DB) {
	deleteMemo := mcp.NewTool("delete_memo",
		mcp.WithDescription("Permanently deletes a memo."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Memo ID or unique prefix.")),
	)
	s.AddTool(deleteMemo, deleteMemoHandler(db))
}

func deleteMemoHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil || id == "" {
			return mcp.NewToolResultError("'id' parameter is required."), nil
		}
		memo, err := resolveMemo(ctx, db, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Error retrieving memo '%s': %v", id, err)), nil
		}
		if memo == nil {
			return mcp.NewToolResultError(fmt.Sprintf("Memo '%s' not found.", id)), nil
		}
		if err := memos.DeleteMemo(ctx, db, memo.ID); err != nil {
			if errors.Is(err, memos.ErrMemoNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Memo '%s' not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete memo: %v", err)), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Memo '%s' deleted.", memo.ID)), nil
	}
}

// RegisterListCategoriesTool registers the list_categories tool.
func RegisterListCategoriesTool(s *server.MCPServer) {
	listCategories := mcp.NewTool("list_categories",
		mcp.WithDescription("Lists the category codes a memo can have, with their display labels."),
	)
	s.AddTool(listCategories, listCategoriesHandler)
}

type categoryView struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

func listCategoriesHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	codes := memos.Categories()
	views := make([]categoryView, len(codes))
	for i, code := range codes {
		views[i] = categoryView{Code: code, Label: memos.LookupCategory(code).Label}
	}
	return jsonResult(views)
}

// RegisterSearchMemosTool registers the search_memos tool.
func RegisterSearchMemosTool(s *server.MCPServer, db *sql.DB) {
	searchMemos := mcp.NewTool("search_memos",
		mcp.WithDescription("Searches memos: fuzzy match on titles and tags, substring match on content. Best matches first."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search term.")),
		mcp.WithString("category", mcp.Description("Only search this category."), mcp.Enum(memos.Categories()...)),
		mcp.WithNumber("limit", mcp.Description(fmt.Sprintf("Maximum number of memos to return (default %d).", defaultListLimit))),
	)
	s.AddTool(searchMemos, searchMemosHandler(db))
}

func searchMemosHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil || strings.TrimSpace(query) == "" {
			return mcp.NewToolResultError("'query' parameter is required and must be a non-empty string."), nil
		}
		found, err := memos.SearchMemos(ctx, db, query, memos.ListQuery{
			Category: request.GetString("category", ""),
			Limit:    request.GetInt("limit", defaultListLimit),
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search memos: %v", err)), nil
		}
		return jsonResult(toViews(found))
	}
}

// RegisterListTagsTool registers the list_tags tool.
func RegisterListTagsTool(s *server.MCPServer, db *sql.DB) {
	listTags := mcp.NewTool("list_tags",
		mcp.WithDescription("Lists every tag in use with the number of memos carrying it."),
	)
	s.AddTool(listTags, listTagsHandler(db))
}

func listTagsHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tags, err := memos.ListTags(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
		}
		return jsonResult(tags)
	}
}

// RegisterMemoOverviewTool registers get_memo_overview, meant to be called
// once at the start of a conversation.
func RegisterMemoOverviewTool(s *server.MCPServer, db *sql.DB) {
	overview := mcp.NewTool("get_memo_overview",
		mcp.WithDescription("Summarizes the memo store: memo counts per category, the most used tags and the latest memo titles. "+
			"Call this first to learn what the user keeps in their memos."),
	)
	s.AddTool(overview, memoOverviewHandler(db))
}

type overviewView struct {
	Total      int              `json:"total"`
	Categories map[string]int   `json:"categories"`
	TopTags    []memos.TagCount `json:"topTags"`
	Recent     []string         `json:"recent"`
}

const (
	overviewTags   = 10
	overviewRecent = 5
)

func memoOverviewHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		all, err := memos.ListMemos(ctx, db, memos.ListQuery{})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list memos: %v", err)), nil
		}
		tags, err := memos.ListTags(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list tags: %v", err)), nil
		}

		out := overviewView{
			Total:      len(all),
			Categories: map[string]int{},
			TopTags:    tags[:min(len(tags), overviewTags)],
			Recent:     []string{},
		}
		for i, m := range all {
			out.Categories[m.Category]++
			if i < overviewRecent {
				out.Recent = append(out.Recent, m.Title)
			}
		}
		return jsonResult(out)
	}
}
