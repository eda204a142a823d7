package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/neilberkman/chatrider/internal/core/db"
	"github.com/neilberkman/chatrider/internal/core/importer"
	"github.com/neilberkman/chatrider/internal/core/search"
	"github.com/neilberkman/chatrider/pkg/waexport"
	log "github.com/sirupsen/logrus"
)

const messageTimeLayout = "2006-01-02 15:04:05"

// Options configure the server. When ExportsDir is set the archive is
// synced from it before each tool call.
type Options struct {
	ExportsDir string
	Rules      waexport.ContentRules
}

// SearchMessagesArgs defines arguments for the search_messages tool
type SearchMessagesArgs struct {
	Query      string `json:"query"`
	Limit      int    `json:"limit,omitempty"`
	Chat       string `json:"chat,omitempty"`
	Sender     string `json:"sender,omitempty"`
	Type       string `json:"type,omitempty"`
	AfterDate  string `json:"after_date,omitempty"`
	BeforeDate string `json:"before_date,omitempty"`
}

// GetChatArgs defines arguments for the get_chat tool
type GetChatArgs struct {
	ChatName    string `json:"chat_name"`
	SearchQuery string `json:"search_query,omitempty"`
	Recent      int    `json:"recent,omitempty"`
}

// ListChatsArgs defines arguments for the list_chats tool
type ListChatsArgs struct {
	Limit  int    `json:"limit,omitempty"`
	Filter string `json:"filter,omitempty"`
}

// MessageMatch is a search hit
type MessageMatch struct {
	Chat      string `json:"chat"`
	MsgID     string `json:"msg_id"`
	Sender    string `json:"sender"`
	Type      string `json:"type"`
	Snippet   string `json:"snippet"`
	Timestamp string `json:"timestamp"`
}

// ChatSummary represents a chat in the list view
type ChatSummary struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
	MessageCount int      `json:"message_count"`
	FirstDate    string   `json:"first_date,omitempty"`
	LastDate     string   `json:"last_date,omitempty"`
}

// ChatDetail is a chat with its most recent and matching messages
type ChatDetail struct {
	ChatSummary
	RecentMessages   []MessageDetail `json:"recent_messages"`
	MatchingMessages []MessageDetail `json:"matching_messages,omitempty"`
}

// MessageDetail represents a single message in a chat
type MessageDetail struct {
	MsgID     string `json:"msg_id"`
	Sender    string `json:"sender"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Media     string `json:"media,omitempty"`
	Timestamp string `json:"timestamp"`
}

type toolHandler = func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

// StartServer starts the MCP server on stdio
func StartServer(dbPath string, opts Options) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.WithError(closeErr).Error("failed to close database")
		}
	}()

	return server.ServeStdio(NewServer(database, opts))
}

// NewServer registers the chat archive tools
func NewServer(database *db.DB, opts Options) *server.MCPServer {
	s := server.NewMCPServer(
		"chatrider",
		"1.0.0",
	)

	searchTool := mcp.NewTool("search_messages",
		mcp.WithDescription("Full-text search over archived WhatsApp chat messages. Supports chat, sender, type, and date filters."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search terms; may also contain chat:, from:, type:, after:, before: filters")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of messages to return (default: 20)")),
		mcp.WithString("chat",
			mcp.Description("Only chats whose name contains this")),
		mcp.WithString("sender",
			mcp.Description("Only messages from senders whose name contains this")),
		mcp.WithString("type",
			mcp.Description("Message type: text, media, omitted, or system")),
		mcp.WithString("after_date",
			mcp.Description("Only messages on or after this date (e.g. '2025-01-01' or 'last week')")),
		mcp.WithString("before_date",
			mcp.Description("Only messages before this date")),
	)
	s.AddTool(searchTool, withSync(database, opts, makeSearchMessagesHandler(database)))

	chatTool := mcp.NewTool("get_chat",
		mcp.WithDescription("Retrieve an archived chat's participants, date span, most recent messages, and optionally messages matching a query"),
		mcp.WithString("chat_name",
			mcp.Required(),
			mcp.Description("Chat name, case-insensitive")),
		mcp.WithString("search_query",
			mcp.Description("Optional text to find within the chat")),
		mcp.WithNumber("recent",
			mcp.Description("Number of most recent messages to include (default: 20)")),
	)
	s.AddTool(chatTool, withSync(database, opts, makeGetChatHandler(database)))

	listTool := mcp.NewTool("list_chats",
		mcp.WithDescription("List archived chats, most recently active first"),
		mcp.WithNumber("limit",
			mcp.Description("Max chats to return (default: 20)")),
		mcp.WithString("filter",
			mcp.Description("Only chats whose name or participants contain this")),
	)
	s.AddTool(listTool, withSync(database, opts, makeListChatsHandler(database)))

	return s
}

// withSync refreshes the archive from the exports directory before running h
func withSync(database *db.DB, opts Options, h toolHandler) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if opts.ExportsDir != "" {
			if _, err := os.Stat(opts.ExportsDir); err == nil {
				if _, err := importer.New(database).ImportDirectory(opts.ExportsDir, opts.Rules, nil); err != nil {
					return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
				}
			}
		}
		return h(ctx, request)
	}
}

func decodeArgs(request mcp.CallToolRequest, v interface{}) error {
	argsBytes, err := json.Marshal(request.Params.Arguments)
	if err != nil {
		return err
	}
	return json.Unmarshal(argsBytes, v)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	resultJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func makeSearchMessagesHandler(database *db.DB) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args SearchMessagesArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		// Inline filters first, explicit arguments override them
		extra := []string{args.Query}
		if args.Type != "" {
			extra = append(extra, "type:"+args.Type)
		}
		if args.AfterDate != "" {
			extra = append(extra, fmt.Sprintf("after:%q", args.AfterDate))
		}
		if args.BeforeDate != "" {
			extra = append(extra, fmt.Sprintf("before:%q", args.BeforeDate))
		}
		filters := search.ParseQuery(strings.Join(extra, " "))
		if args.Chat != "" {
			filters.Chat = args.Chat
		}
		if args.Sender != "" {
			filters.Sender = args.Sender
		}
		filters.Limit = args.Limit
		if filters.Limit <= 0 {
			filters.Limit = 20
		}

		results, err := search.SearchWithFilters(database, filters)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		matches := make([]MessageMatch, 0, len(results))
		for _, r := range results {
			matches = append(matches, MessageMatch{
				Chat:      r.ChatName,
				MsgID:     r.MsgID,
				Sender:    r.Sender,
				Type:      r.Type,
				Snippet:   r.Snippet,
				Timestamp: strings.Replace(r.Timestamp, "T", " ", 1),
			})
		}

		return jsonResult(map[string]interface{}{
			"messages": matches,
		})
	}
}

func makeGetChatHandler(database *db.DB) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args GetChatArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		detail, err := database.GetChatDetail(args.ChatName)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		recent := args.Recent
		if recent <= 0 {
			recent = 20
		}

		out := ChatDetail{
			ChatSummary:    summarize(detail.ChatName, detail.Participants, detail.MessageCount, detail.FirstDate, detail.LastDate),
			RecentMessages: []MessageDetail{},
		}
		msgs := detail.Messages
		if len(msgs) > recent {
			msgs = msgs[len(msgs)-recent:]
		}
		for _, m := range msgs {
			out.RecentMessages = append(out.RecentMessages, messageDetail(m.MsgID, m.Sender, m.Type, m.Content, m.MediaFilename, m.Timestamp.Format(messageTimeLayout)))
		}

		if args.SearchQuery != "" {
			out.MatchingMessages = []MessageDetail{}
			queryLower := strings.ToLower(args.SearchQuery)
			for _, m := range detail.Messages {
				if strings.Contains(strings.ToLower(m.Content), queryLower) {
					out.MatchingMessages = append(out.MatchingMessages, messageDetail(m.MsgID, m.Sender, m.Type, m.Content, m.MediaFilename, m.Timestamp.Format(messageTimeLayout)))
					if len(out.MatchingMessages) >= 20 {
						break
					}
				}
			}
		}

		return jsonResult(out)
	}
}

func makeListChatsHandler(database *db.DB) toolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args ListChatsArgs
		if err := decodeArgs(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit <= 0 {
			limit = 20
		}

		chats, err := database.ListChats(args.Filter, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		out := make([]ChatSummary, 0, len(chats))
		for _, c := range chats {
			out = append(out, summarize(c.ChatName, c.Participants, c.MessageCount, c.FirstDate, c.LastDate))
		}

		return jsonResult(map[string]interface{}{
			"chats": out,
		})
	}
}

func summarize(name string, participants []string, count int, first, last string) ChatSummary {
	return ChatSummary{
		Name:         name,
		Participants: participants,
		MessageCount: count,
		FirstDate:    first,
		LastDate:     last,
	}
}

func messageDetail(id, sender, typ, content, media, ts string) MessageDetail {
	return MessageDetail{
		MsgID:     id,
		Sender:    sender,
		Type:      typ,
		Content:   content,
		Media:     media,
		Timestamp: ts,
	}
}
