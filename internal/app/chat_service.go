package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"sheetchat/internal/ai"
	"sheetchat/internal/budget"
	"sheetchat/internal/dataset"
	"sheetchat/internal/model"
	"sheetchat/internal/source"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrSessionNotFound = errors.New("session not found")
	ErrMessageEmpty    = errors.New("message content is empty")
	ErrLLMConfig       = errors.New("llm api key not configured")
)

// NoSelectionReply is returned verbatim when a message arrives before any
// source has been selected. The completion service is never contacted and
// the history is left untouched.
const NoSelectionReply = "Please select a data source first."

const systemFraming = "You are a smart, general-purpose data analysis assistant. " +
	"Answer the user's questions using the table below.\nData:\n"

const titlePromptPrefix = "Give a short, specific title (at most 8 words) " +
	"describing what this table is about:\n\n"

// titleSampleChars bounds how much context the best-effort title request
// sees; the full bounded context would waste tokens on a throwaway call.
const titleSampleChars = 2000

// TurnArchiver receives completed turn entries for the write-only audit
// trail.
type TurnArchiver interface {
	Publish(ctx context.Context, msg model.ArchivedMessage) error
}

// TableCache is the shared per-sourceId table cache in front of the loader.
type TableCache interface {
	Get(ctx context.Context, sourceID string) (*dataset.Table, bool, error)
	Set(ctx context.Context, sourceID string, table *dataset.Table) error
}

// ChatService drives the select-source pipeline and the chat turns against
// the completion service.
type ChatService struct {
	sessions   *SessionStore
	links      *LinkService
	resolver   *source.Resolver
	loader     *dataset.Loader
	tableCache TableCache
	archiver   TurnArchiver
	llmClient  *ai.Client
	llm        ai.ChatConfig
	policy     budget.Policy
}

func NewChatService(
	sessions *SessionStore,
	links *LinkService,
	resolver *source.Resolver,
	loader *dataset.Loader,
	tableCache TableCache,
	archiver TurnArchiver,
	llm ai.ChatConfig,
	policy budget.Policy,
) *ChatService {
	return &ChatService{
		sessions:   sessions,
		links:      links,
		resolver:   resolver,
		loader:     loader,
		tableCache: tableCache,
		archiver:   archiver,
		llmClient:  ai.NewClient(0),
		llm:        llm,
		policy:     policy,
	}
}

type SelectSourceInput struct {
	SessionID string
	LinkID    uint
	URL       string
}

type SelectSourceResult struct {
	SourceID    string `json:"source_id"`
	RowCount    int    `json:"row_count"`
	ColumnCount int    `json:"column_count"`
	Truncated   bool   `json:"truncated"`
	FromCache   bool   `json:"from_cache"`
	Title       string `json:"title,omitempty"`
}

// SelectSource resolves a link into a loaded, budgeted dataset and installs
// it on the session. Selecting a source with a different sourceId clears the
// session's history; reselecting the current one reuses the loaded table
// without a fetch.
func (s *ChatService) SelectSource(ctx context.Context, input SelectSourceInput) (*SelectSourceResult, error) {
	session, ok := s.sessions.Get(input.SessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}

	url := strings.TrimSpace(input.URL)
	if input.LinkID != 0 {
		entry, err := s.links.Get(input.LinkID)
		if err != nil {
			return nil, err
		}
		url = entry.URL
	}
	if url == "" {
		return nil, ErrInvalidInput
	}

	resolved, err := s.resolver.Resolve(url)
	if err != nil {
		return nil, err
	}

	table, fromCache, err := s.obtainTable(ctx, session, resolved)
	if err != nil {
		return nil, err
	}

	bounded := budget.Build(table, resolved.SourceID, s.policy)
	session.SetSelection(resolved.SourceID, table, bounded)

	result := &SelectSourceResult{
		SourceID:    resolved.SourceID,
		RowCount:    len(table.Rows),
		ColumnCount: len(table.Columns),
		Truncated:   bounded.Truncated,
		FromCache:   fromCache,
	}

	// Best-effort enrichment: a failed title request is discarded and the
	// selection succeeds without one.
	if title, titleErr := s.summarizeSource(ctx, bounded); titleErr == nil {
		result.Title = title
	}

	return result, nil
}

func (s *ChatService) obtainTable(ctx context.Context, session *Session, resolved source.ResolvedSource) (*dataset.Table, bool, error) {
	if session.SourceID() == resolved.SourceID {
		if table := session.Table(); table != nil {
			return table, true, nil
		}
	}

	if s.tableCache != nil {
		if cached, hit, cacheErr := s.tableCache.Get(ctx, resolved.SourceID); cacheErr == nil && hit {
			return cached, true, nil
		}
	}

	table, err := s.loader.Load(ctx, resolved.FetchURL)
	if err != nil {
		return nil, false, err
	}
	if s.tableCache != nil {
		_ = s.tableCache.Set(ctx, resolved.SourceID, table)
	}
	return table, false, nil
}

type SendMessageInput struct {
	SessionID string
	Content   string
}

// StreamAnswer runs one chat turn in streaming mode. Every content delta is
// forwarded to onChunk as it arrives; once the stream finishes the
// accumulated reply is appended to the session history exactly once. On a
// transport failure nothing is appended for the assistant turn; the user
// message stays so the question can be retried.
func (s *ChatService) StreamAnswer(
	ctx context.Context,
	input SendMessageInput,
	onChunk func(chunk string) error,
) (string, error) {
	session, content, err := s.beginTurn(input)
	if err != nil {
		return "", err
	}
	if onChunk == nil {
		onChunk = func(string) error { return nil }
	}

	bounded := session.Context()
	if bounded == nil {
		if err := onChunk(NoSelectionReply); err != nil {
			return "", err
		}
		return NoSelectionReply, nil
	}
	if strings.TrimSpace(s.llm.APIKey) == "" {
		return "", ErrLLMConfig
	}

	prompt := s.buildPromptMessages(bounded, session.History(), content)

	session.Append(model.RoleUser, content)
	s.archive(ctx, session, model.RoleUser, content)

	full, err := s.llmClient.StreamComplete(ctx, s.llm, prompt, onChunk)
	if err != nil {
		return "", err
	}
	return s.finishTurn(ctx, session, full), nil
}

// Answer is the non-streaming variant of StreamAnswer with the same history
// semantics.
func (s *ChatService) Answer(ctx context.Context, input SendMessageInput) (string, error) {
	session, content, err := s.beginTurn(input)
	if err != nil {
		return "", err
	}

	bounded := session.Context()
	if bounded == nil {
		return NoSelectionReply, nil
	}
	if strings.TrimSpace(s.llm.APIKey) == "" {
		return "", ErrLLMConfig
	}

	prompt := s.buildPromptMessages(bounded, session.History(), content)

	session.Append(model.RoleUser, content)
	s.archive(ctx, session, model.RoleUser, content)

	full, err := s.llmClient.Complete(ctx, s.llm, prompt)
	if err != nil {
		return "", err
	}
	return s.finishTurn(ctx, session, full), nil
}

func (s *ChatService) History(sessionID string) ([]model.Message, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.History(), nil
}

func (s *ChatService) beginTurn(input SendMessageInput) (*Session, string, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, "", ErrMessageEmpty
	}
	session, ok := s.sessions.Get(input.SessionID)
	if !ok {
		return nil, "", ErrSessionNotFound
	}
	return session, content, nil
}

func (s *ChatService) finishTurn(ctx context.Context, session *Session, full string) string {
	full = strings.TrimSpace(full)
	if full == "" {
		full = "The model returned an empty response."
	}
	session.Append(model.RoleAssistant, full)
	s.archive(ctx, session, model.RoleAssistant, full)
	return full
}

// archive is fire-and-forget: the audit trail must never fail a chat turn.
func (s *ChatService) archive(ctx context.Context, session *Session, role, content string) {
	if s.archiver == nil {
		return
	}
	_ = s.archiver.Publish(ctx, model.ArchivedMessage{
		SessionID: session.ID,
		SourceID:  session.SourceID(),
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	})
}

func (s *ChatService) buildPromptMessages(bounded *budget.BoundedContext, history []model.Message, currentUserInput string) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, len(history)+2)
	messages = append(messages, ai.ChatMessage{
		Role:    model.RoleSystem,
		Content: systemFraming + bounded.Text,
	})
	for _, item := range history {
		role := item.Role
		if role == "" {
			role = model.RoleUser
		}
		messages = append(messages, ai.ChatMessage{
			Role:    role,
			Content: item.Content,
		})
	}
	messages = append(messages, ai.ChatMessage{
		Role:    model.RoleUser,
		Content: currentUserInput,
	})
	return messages
}

// summarizeSource asks for a short dataset label using only a slice of the
// bounded context. Callers treat the error branch as "no title".
func (s *ChatService) summarizeSource(ctx context.Context, bounded budget.BoundedContext) (string, error) {
	if strings.TrimSpace(s.llm.APIKey) == "" {
		return "", ErrLLMConfig
	}
	sample := bounded.Text
	if len(sample) > titleSampleChars {
		sample = sample[:titleSampleChars]
	}
	title, err := s.llmClient.Complete(ctx, s.llm, []ai.ChatMessage{
		{Role: model.RoleUser, Content: titlePromptPrefix + sample},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(title), nil
}
