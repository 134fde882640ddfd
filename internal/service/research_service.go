package service

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/SakshamA8/caseclosed/internal/dto"
	"github.com/SakshamA8/caseclosed/internal/pkg/logger"
	"github.com/SakshamA8/caseclosed/internal/pkg/serverutils"
	"github.com/SakshamA8/caseclosed/internal/repository/contract"
	"github.com/SakshamA8/caseclosed/pkg/agent"
	"github.com/SakshamA8/caseclosed/pkg/llm"
	"github.com/SakshamA8/caseclosed/pkg/research"
	"github.com/SakshamA8/caseclosed/pkg/research/analyzer"
	"github.com/SakshamA8/caseclosed/pkg/research/clarify"
	"github.com/SakshamA8/caseclosed/pkg/research/drafter"
	"github.com/SakshamA8/caseclosed/pkg/research/grader"
	"github.com/SakshamA8/caseclosed/pkg/research/insight"
	"github.com/SakshamA8/caseclosed/pkg/research/query"
	"github.com/SakshamA8/caseclosed/pkg/research/retrieval"
	"github.com/SakshamA8/caseclosed/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// IResearchService is the conversational orchestration engine.
type IResearchService interface {
	CreateContext(ctx context.Context) (*dto.CreateContextResponse, error)
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	Document(ctx context.Context, request *dto.DocumentRequest) (*dto.DocumentResponse, error)
	IngestText(ctx context.Context, contextId, text string) (*dto.UploadResponse, error)
	GetContext(ctx context.Context, contextId string) (*research.SessionContext, error)
}

// researchService runs one synchronous pipeline per user turn:
// clarify -> extract -> diversify -> retrieve -> grade -> insight ->
// insight-primed re-extraction. Turns on the same context are serialized
// through the session store's lock.
type researchService struct {
	store     contract.SessionStore
	sysLogger logger.ILogger
	llmLogger *log.Logger

	analyzer    *analyzer.Analyzer
	clarifier   *clarify.Controller
	diversifier *query.Diversifier
	retriever   *retrieval.Retriever
	grader      *grader.Grader
	insighter   *insight.Extractor
	drafter     *drafter.Drafter
}

// NewResearchService wires the pipeline agents around one shared gateway.
func NewResearchService(
	store contract.SessionStore,
	llmProvider llm.LLMProvider,
	searcher retrieval.Searcher,
	sysLogger logger.ILogger,
) IResearchService {
	llmLogger := initLLMLogger()
	gateway := agent.NewGateway(llmProvider)

	return &researchService{
		store:     store,
		sysLogger: sysLogger,
		llmLogger: llmLogger,

		analyzer:    analyzer.New(gateway, llmLogger),
		clarifier:   clarify.NewController(gateway, llmLogger),
		diversifier: query.NewDiversifier(gateway, llmLogger),
		retriever:   retrieval.NewRetriever(searcher, llmLogger),
		grader:      grader.NewGrader(gateway, llmLogger),
		insighter:   insight.NewExtractor(gateway, llmLogger),
		drafter:     drafter.NewDrafter(gateway, llmLogger),
	}
}

func initLLMLogger() *log.Logger {
	logPath := filepath.Join(".", "logs", "llm_research.log")
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		log.Printf("Failed to create logs directory: %v", err)
	}
	file, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return log.New(os.Stdout, "[LLM-RESEARCH] ", log.LstdFlags)
	}
	return log.New(file, "", log.LstdFlags)
}

// CreateContext issues a fresh context id and seeds an empty session.
func (s *researchService) CreateContext(ctx context.Context) (*dto.CreateContextResponse, error) {
	sc := research.NewSessionContext(uuid.NewString())
	if err := s.store.Put(ctx, sc); err != nil {
		return nil, err
	}
	return &dto.CreateContextResponse{ContextId: sc.ID}, nil
}

// Chat processes one conversational turn.
func (s *researchService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	contextId := request.ContextId
	if contextId == "" {
		contextId = uuid.NewString()
	}

	var response *dto.ChatResponse
	err := s.store.WithLock(ctx, contextId, func() error {
		sc, found := s.store.Get(ctx, contextId)
		if !found {
			sc = research.NewSessionContext(contextId)
		}

		// Accumulate this turn's text. Clarification answers arrive as a
		// batch and are folded into the narrative in arrival order.
		sc.AppendNarrative(request.Message)
		for _, answer := range request.ClarificationAnswers {
			sc.AppendNarrative(answer)
		}

		// Decide whether to pause for clarification. When the caller is
		// explicitly adding supplemental material to an established
		// context, the question round is skipped. Answers to pending
		// questions are re-evaluated here, not trusted at face value.
		decision := clarify.Decision{}
		if !request.AddingInfo {
			decision = s.clarifier.Evaluate(ctx, request.Message, sc.Narrative, sc.Analysis, sc.ClarifyAttempts)
		}

		if decision.State(sc.ClarifyAttempts) == clarify.StateAwaitAnswer {
			sc.ClarifyAttempts++
			sc.PendingQuestions = decision.Questions
			if err := s.store.Put(ctx, sc); err != nil {
				return err
			}
			s.sysLogger.Info("research", "Pausing for clarification", map[string]interface{}{
				"context_id": contextId,
				"attempts":   sc.ClarifyAttempts,
				"questions":  len(decision.Questions),
			})
			response = &dto.ChatResponse{
				Status:          dto.StatusClarifying,
				ContextId:       contextId,
				Questions:       decision.Questions,
				ClarifyAttempts: sc.ClarifyAttempts,
			}
			return nil
		}
		sc.PendingQuestions = []string{}

		response = s.runResearch(ctx, sc)
		return s.store.Put(ctx, sc)
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// runResearch executes the retrieval half of the turn. The session context
// is mutated in place; the caller persists it.
func (s *researchService) runResearch(ctx context.Context, sc *research.SessionContext) *dto.ChatResponse {
	// Structured extraction; the bundle only ever gets richer.
	extracted := s.analyzer.Extract(ctx, sc.Narrative, nil)
	sc.Analysis.MergeFrom(extracted.Bundle)
	if extracted.Summary != "" {
		sc.Summary = extracted.Summary
	}

	summary := sc.Summary
	if summary == "" {
		summary = utils.Truncate(sc.Narrative, research.CaseTextPromptLimit)
	}

	// Diversified multi-query retrieval. The query log is per-turn
	// diagnostic state, so it resets here.
	queries := s.diversifier.Diversify(ctx, summary, sc.Analysis, research.QueryCount)
	sc.SearchQueries = queries

	cases, err := s.retriever.Retrieve(ctx, queries)
	if err != nil {
		// Fatal for the turn: a partial case list would bias the ranking,
		// so no partial results are surfaced.
		s.sysLogger.Error("research", "Retrieval failed, aborting turn", map[string]interface{}{
			"context_id": sc.ID,
			"error":      err.Error(),
		})
		return &dto.ChatResponse{
			Status:    dto.StatusError,
			ContextId: sc.ID,
			Message:   "case retrieval failed: " + err.Error(),
		}
	}

	graded := s.grader.GradeAll(ctx, summary, sc.Analysis, cases)
	if len(graded) > research.MaxTrackedCases {
		graded = graded[:research.MaxTrackedCases]
	}

	// Deep insight on the strongest cases only, fed back into one more
	// extraction pass so retrieved case law sharpens the analysis.
	insights := make([]research.CaseInsight, 0, research.MaxInsightCases)
	for i := range graded {
		if i >= research.MaxInsightCases {
			break
		}
		ins := s.insighter.Inspect(ctx, graded[i], sc.Analysis)
		if ins.IsEmpty() {
			continue
		}
		graded[i].Insight = &ins
		insights = append(insights, ins)
	}
	sc.Cases = graded

	if len(insights) > 0 {
		refined := s.analyzer.Extract(ctx, sc.Narrative, insights)
		sc.Analysis.MergeFrom(refined.Bundle)
		if refined.Summary != "" {
			sc.Summary = refined.Summary
		}
	}

	// New information arrived, so cached drafts are stale.
	sc.DraftedDocuments = map[research.DocType]string{}

	s.sysLogger.Info("research", "Turn completed", map[string]interface{}{
		"context_id": sc.ID,
		"queries":    len(queries),
		"cases":      len(sc.Cases),
	})

	analysis := sc.Analysis
	return &dto.ChatResponse{
		Status:          dto.StatusResults,
		ContextId:       sc.ID,
		ClarifyAttempts: sc.ClarifyAttempts,
		Analysis:        &analysis,
		Summary:         sc.Summary,
		Cases:           sc.Cases,
	}
}

// Document returns the drafted memo or brief for a context, recomputing
// only when no cached copy exists.
func (s *researchService) Document(ctx context.Context, request *dto.DocumentRequest) (*dto.DocumentResponse, error) {
	docType, ok := research.ParseDocType(request.DocType)
	if !ok {
		return nil, serverutils.NewHTTPError(fiber.StatusBadRequest, "unknown document type: "+request.DocType)
	}

	var response *dto.DocumentResponse
	err := s.store.WithLock(ctx, request.ContextId, func() error {
		sc, found := s.store.Get(ctx, request.ContextId)
		if !found {
			return serverutils.NewHTTPError(fiber.StatusNotFound, "unknown context: "+request.ContextId)
		}
		if !sc.HasContent() {
			return serverutils.NewHTTPError(fiber.StatusUnprocessableEntity, "context has no material to draft from")
		}

		if cached, ok := sc.DraftedDocuments[docType]; ok {
			response = &dto.DocumentResponse{Document: cached, DocType: string(docType)}
			return nil
		}

		document := s.drafter.Draft(ctx, sc, docType)
		if !agent.Failed(document) {
			// failed drafts are surfaced but never cached
			sc.DraftedDocuments[docType] = document
			if err := s.store.Put(ctx, sc); err != nil {
				return err
			}
		}

		response = &dto.DocumentResponse{Document: document, DocType: string(docType)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// IngestText appends collaborator-extracted document text to the
// narrative and runs one extraction pass over the enlarged narrative.
func (s *researchService) IngestText(ctx context.Context, contextId, text string) (*dto.UploadResponse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, serverutils.NewHTTPError(fiber.StatusBadRequest, "no text supplied")
	}
	if contextId == "" {
		contextId = uuid.NewString()
	}

	var response *dto.UploadResponse
	err := s.store.WithLock(ctx, contextId, func() error {
		sc, found := s.store.Get(ctx, contextId)
		if !found {
			sc = research.NewSessionContext(contextId)
		}

		sc.AppendNarrative(text)
		extracted := s.analyzer.Extract(ctx, sc.Narrative, nil)
		sc.Analysis.MergeFrom(extracted.Bundle)
		if extracted.Summary != "" {
			sc.Summary = extracted.Summary
		}

		if err := s.store.Put(ctx, sc); err != nil {
			return err
		}

		response = &dto.UploadResponse{
			ContextId: contextId,
			Analysis:  sc.Analysis,
			Chars:     len(text),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetContext exposes a snapshot of the session context for diagnostics.
// The memory store hands back the live pointer an in-flight turn mutates,
// so the read takes the session lock and returns a deep copy.
func (s *researchService) GetContext(ctx context.Context, contextId string) (*research.SessionContext, error) {
	var snapshot *research.SessionContext
	err := s.store.WithLock(ctx, contextId, func() error {
		sc, found := s.store.Get(ctx, contextId)
		if !found {
			return serverutils.NewHTTPError(fiber.StatusNotFound, "unknown context: "+contextId)
		}
		snapshot = sc.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
