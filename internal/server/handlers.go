package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gorilla/schema"

	"github.com/mrocha/faqbot/internal/database"
	apperrors "github.com/mrocha/faqbot/internal/errors"
	"github.com/mrocha/faqbot/internal/generator"
)

var chatTmpl = template.Must(template.New("chat").Parse(`<!DOCTYPE html>
<html>
<head><title>AI Chatbot</title></head>
<body>
    <h1>AI-Powered Chatbot</h1>
    <form method="POST">
        <label>Your Message:</label><br>
        <input type="text" name="user_input" required><br><br>
        <button type="submit">Send</button>
        <button type="submit" name="reset">Reset Conversation</button>
    </form>
    {{if .Response}}<h2>Bot Response:</h2><p>{{.Response}}</p>{{end}}
</body>
</html>
`))

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type chatForm struct {
	UserInput string `schema:"user_input"`
}

// handleChat serves the chat page and, on POST, processes one chat turn.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := s.sessions.SessionID(w, r)

	var response string
	if r.Method == http.MethodPost {
		response = s.processTurn(ctx, r, sessionID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chatTmpl.Execute(w, struct{ Response string }{Response: response}); err != nil {
		s.log.ErrorContext(ctx, "Failed to render chat template", "error", err)
	}
}

// processTurn runs one POST through the reset / length-check / respond / log
// pipeline and returns the user-visible response string. It never fails the
// request: every error path degrades to a fixed message.
func (s *Server) processTurn(ctx context.Context, r *http.Request, sessionID string) string {
	if err := r.ParseForm(); err != nil {
		s.log.WarnContext(ctx, "Failed to parse chat form", "error", err)
		return s.cfg.Messages.InputTooLong
	}

	if r.PostForm.Has("reset") {
		if err := s.transcripts.Clear(ctx, sessionID); err != nil {
			s.log.ErrorContext(ctx, "Failed to clear transcript", "session_id", sessionID, "error", err)
		}
		return s.cfg.Messages.ResetAck
	}

	var form chatForm
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		s.log.WarnContext(ctx, "Failed to decode chat form", "error", err)
	}
	input := strings.TrimSpace(form.UserInput)

	if utf8.RuneCountInString(input) > s.cfg.Server.MaxInputChars {
		return s.cfg.Messages.InputTooLong
	}

	if err := s.transcripts.Append(ctx, sessionID, "User: "+input); err != nil {
		s.log.ErrorContext(ctx, "Failed to append user turn", "session_id", sessionID, "error", err)
	}

	transcript, err := s.transcripts.Transcript(ctx, sessionID)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to load transcript", "session_id", sessionID, "error", err)
		transcript = nil
	}

	response := s.respond(ctx, transcript, input)

	if err := s.transcripts.Append(ctx, sessionID, "Bot: "+response); err != nil {
		s.log.ErrorContext(ctx, "Failed to append bot turn", "session_id", sessionID, "error", err)
	}

	if input != "" && response != "" {
		s.logExchange(ctx, sessionID, input, response)
	} else {
		s.log.DebugContext(ctx, "Skipped logging empty exchange", "session_id", sessionID)
	}

	return response
}

// respond answers from the FAQ table when possible; the generator is only
// invoked when no FAQ entry matches.
func (s *Server) respond(ctx context.Context, transcript []string, input string) string {
	if answer, ok := s.matcher.Match(input); ok {
		s.log.DebugContext(ctx, "Answered from FAQ table")
		return answer
	}

	reply, err := s.gen.Generate(ctx, transcript, input)
	if errors.Is(err, generator.ErrEmptyReply) {
		return s.cfg.Messages.EmptyReply
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Generation failed", "error_code", apperrors.Code(err), "error", err)
		return fmt.Sprintf(s.cfg.Messages.GenerationError, err)
	}
	return reply
}

// logExchange persists one turn to the interaction log. Storage failures are
// logged and swallowed; they never affect the HTTP response.
func (s *Server) logExchange(ctx context.Context, sessionID, input, response string) {
	interaction := &database.Interaction{
		SessionID:   sessionID,
		UserInput:   input,
		BotResponse: response,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.store.SaveInteraction(ctx, interaction); err != nil {
		wrapped := apperrors.NewLogWriteError("failed to log interaction", err)
		s.log.ErrorContext(ctx, "Interaction logging failed",
			"session_id", sessionID, "error_code", apperrors.Code(wrapped), "error", wrapped)
	}
}
