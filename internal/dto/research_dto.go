package dto

import (
	"github.com/SakshamA8/caseclosed/pkg/research"
)

// Turn statuses returned by the chat endpoint.
const (
	StatusClarifying = "clarifying"
	StatusResults    = "results"
	StatusError      = "error"
)

type ChatRequest struct {
	ContextId            string   `json:"context_id"`
	Message              string   `json:"message" validate:"required"`
	Clarified            bool     `json:"clarified"`
	ClarificationAnswers []string `json:"clarification_answers,omitempty"`
	ClarifyAttempts      int      `json:"clarify_attempts"`
	AddingInfo           bool     `json:"adding_info"`
}

type ChatResponse struct {
	Status          string                   `json:"status"`
	ContextId       string                   `json:"context_id"`
	Questions       []string                 `json:"questions,omitempty"`
	ClarifyAttempts int                      `json:"clarify_attempts"`
	Analysis        *research.AnalysisBundle `json:"analysis,omitempty"`
	Summary         string                   `json:"summary,omitempty"`
	Cases           []research.Case          `json:"cases,omitempty"`
	Message         string                   `json:"message,omitempty"`
}

type DocumentRequest struct {
	ContextId string `json:"context_id" validate:"required"`
	DocType   string `json:"doc_type" validate:"required,oneof=memo brief"`
}

type DocumentResponse struct {
	Document string `json:"document"`
	DocType  string `json:"doc_type"`
}

type CreateContextResponse struct {
	ContextId string `json:"context_id"`
}

type UploadResponse struct {
	ContextId string                  `json:"context_id"`
	Analysis  research.AnalysisBundle `json:"analysis"`
	Chars     int                     `json:"chars"`
}
