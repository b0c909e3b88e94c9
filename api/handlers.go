package api

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/pairwise/pkg/llm"
	"github.com/papercomputeco/pairwise/pkg/session"
)

const savedMessage = "Conversation saved successfully"

// NudgeResponse is the body returned by POST /nudge.
type NudgeResponse struct {
	NudgeResponse string `json:"nudge_response"`
}

// SaveResponse is the body returned by POST /save_conversation.
type SaveResponse struct {
	ConversationID string `json:"conversation_id"`
	Message        string `json:"message"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleGenerate returns one answer per model tier for the next user prompt.
func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req llm.ConversationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	pair, err := s.relay.Generate(c.UserContext(), req)
	if err != nil {
		s.logger.Error("generate failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "upstream request failed"})
	}

	return c.JSON(pair)
}

// handleNudge asks the strong tier alone for an answer.
func (s *Server) handleNudge(c *fiber.Ctx) error {
	var req llm.ConversationRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	out, err := s.relay.Nudge(c.UserContext(), req)
	if err != nil {
		s.logger.Error("nudge failed", "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(llm.ErrorResponse{Error: "upstream request failed"})
	}

	return c.JSON(NudgeResponse{NudgeResponse: out})
}

// handleSaveConversation flattens an evaluated session into one log row.
func (s *Server) handleSaveConversation(c *fiber.Ctx) error {
	payload, err := session.Parse(c.Body())
	if err != nil {
		if errors.Is(err, session.ErrInvalidPayload) {
			return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "internal error"})
	}

	rec := s.summarizer.Summarize(payload)
	if err := s.recorder.Submit(c.UserContext(), rec); err != nil {
		s.logger.Error("saving conversation failed",
			"task_id", rec.TaskID,
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to save conversation"})
	}

	s.logger.Info("conversation saved",
		"task_id", rec.TaskID,
		"failure_turns", rec.FailureTurns,
	)

	return c.JSON(SaveResponse{
		ConversationID: rec.TaskID,
		Message:        savedMessage,
	})
}
