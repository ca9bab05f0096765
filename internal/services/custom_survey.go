package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/feedback360-backend/internal/data/repos"
	types "github.com/yungbote/feedback360-backend/internal/domain"
	"github.com/yungbote/feedback360-backend/internal/domain/survey"
	"github.com/yungbote/feedback360-backend/internal/observability"
	apperr "github.com/yungbote/feedback360-backend/internal/pkg/errors"
	"github.com/yungbote/feedback360-backend/internal/platform/logger"
	"github.com/yungbote/feedback360-backend/internal/realtime"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var targetAudiences = map[string]bool{"employee": true, "supervisor": true, "both": true}

type CustomSurveyInput struct {
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	IsActive       *bool                  `json:"is_active"`
	TargetAudience string                 `json:"target_audience"`
	Questions      []types.CustomQuestion `json:"questions"`
}

// CustomResponseInput answers a custom survey: question id -> answer.
type CustomResponseInput struct {
	ManagerName string                  `json:"manager_name"`
	Answers     map[string]types.Answer `json:"answers"`
	Comments    string                  `json:"comments"`

	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type CustomSurveyService interface {
	Create(ctx context.Context, createdBy string, in CustomSurveyInput) (*types.CustomSurvey, error)
	Get(ctx context.Context, id uuid.UUID) (*types.CustomSurvey, error)
	List(ctx context.Context, activeOnly bool) ([]*types.CustomSurvey, error)
	Update(ctx context.Context, id uuid.UUID, in CustomSurveyInput) (*types.CustomSurvey, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Respond(ctx context.Context, id uuid.UUID, in CustomResponseInput) (*types.Submission, error)
	Responses(ctx context.Context, id uuid.UUID) ([]*types.Submission, error)
}

type customSurveyService struct {
	db             *gorm.DB
	log            *logger.Logger
	surveyRepo     repos.CustomSurveyRepo
	submissionRepo repos.SubmissionRepo
	emitter        realtime.Emitter
}

func NewCustomSurveyService(db *gorm.DB, log *logger.Logger, surveyRepo repos.CustomSurveyRepo, submissionRepo repos.SubmissionRepo, emitter realtime.Emitter) CustomSurveyService {
	if emitter == nil {
		emitter = realtime.Nop()
	}
	return &customSurveyService{
		db:             db,
		log:            log.With("service", "CustomSurveyService"),
		surveyRepo:     surveyRepo,
		submissionRepo: submissionRepo,
		emitter:        emitter,
	}
}

func (cs *customSurveyService) Create(ctx context.Context, createdBy string, in CustomSurveyInput) (*types.CustomSurvey, error) {
	questions, err := normalizeCustomSurvey(&in)
	if err != nil {
		return nil, err
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	s := &types.CustomSurvey{
		Title:          in.Title,
		Description:    in.Description,
		CreatedBy:      createdBy,
		IsActive:       active,
		TargetAudience: in.TargetAudience,
		Questions:      datatypes.NewJSONType(questions),
	}
	created, err := cs.surveyRepo.Create(ctx, cs.db, s)
	if err != nil {
		return nil, fmt.Errorf("create custom survey: %w", err)
	}
	cs.log.Info("Custom survey created", "custom_survey_id", created.ID, "questions", len(questions))
	return created, nil
}

func (cs *customSurveyService) Get(ctx context.Context, id uuid.UUID) (*types.CustomSurvey, error) {
	return cs.surveyRepo.GetByID(ctx, cs.db, id)
}

func (cs *customSurveyService) List(ctx context.Context, activeOnly bool) ([]*types.CustomSurvey, error) {
	out, err := cs.surveyRepo.List(ctx, cs.db, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list custom surveys: %w", err)
	}
	return out, nil
}

func (cs *customSurveyService) Update(ctx context.Context, id uuid.UUID, in CustomSurveyInput) (*types.CustomSurvey, error) {
	existing, err := cs.surveyRepo.GetByID(ctx, cs.db, id)
	if err != nil {
		return nil, err
	}
	questions, err := normalizeCustomSurvey(&in)
	if err != nil {
		return nil, err
	}
	existing.Title = in.Title
	existing.Description = in.Description
	existing.TargetAudience = in.TargetAudience
	existing.Questions = datatypes.NewJSONType(questions)
	if in.IsActive != nil {
		existing.IsActive = *in.IsActive
	}
	existing.UpdatedAt = time.Now().UTC()
	if err := cs.surveyRepo.Save(ctx, cs.db, existing); err != nil {
		return nil, fmt.Errorf("update custom survey: %w", err)
	}
	cs.log.Info("Custom survey updated", "custom_survey_id", id)
	return existing, nil
}

func (cs *customSurveyService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := cs.surveyRepo.Delete(ctx, cs.db, id); err != nil {
		return err
	}
	cs.log.Info("Custom survey deleted", "custom_survey_id", id)
	return nil
}

func (cs *customSurveyService) Respond(ctx context.Context, id uuid.UUID, in CustomResponseInput) (*types.Submission, error) {
	s, err := cs.surveyRepo.GetByID(ctx, cs.db, id)
	if err != nil {
		return nil, err
	}
	if !s.IsActive {
		return nil, fmt.Errorf("%w: custom survey is not accepting responses", apperr.ErrInvalidArgument)
	}
	answers, err := validateCustomAnswers(s.Questions.Data(), in.Answers)
	if err != nil {
		return nil, err
	}

	surveyID := s.ID
	sub := &types.Submission{
		Role:           types.RoleCustom,
		ManagerName:    strings.TrimSpace(in.ManagerName),
		CustomSurveyID: &surveyID,
		Responses:      datatypes.NewJSONType(types.Responses{surveyID.String(): answers}),
		Comments:       in.Comments,
		Status:         types.StatusCompleted,
		IPAddress:      in.IPAddress,
		UserAgent:      in.UserAgent,
		SubmittedAt:    time.Now().UTC(),
	}
	created, err := cs.submissionRepo.Create(ctx, cs.db, []*types.Submission{sub})
	if err != nil {
		return nil, fmt.Errorf("store custom response: %w", err)
	}
	out := created[0]
	observability.Current().IncSubmission(string(types.RoleCustom), "created")
	cs.emitter.Emit(ctx, realtime.SSEMessage{
		Channel: realtime.ChannelAdmin,
		Event:   realtime.SSEEventSubmissionCreated,
		Data:    map[string]any{"id": out.ID, "role": out.Role, "custom_survey_id": surveyID},
	})
	cs.log.Info("Custom survey response stored", "custom_survey_id", surveyID, "submission_id", out.ID)
	return out, nil
}

func (cs *customSurveyService) Responses(ctx context.Context, id uuid.UUID) ([]*types.Submission, error) {
	if _, err := cs.surveyRepo.GetByID(ctx, cs.db, id); err != nil {
		return nil, err
	}
	return cs.submissionRepo.List(ctx, cs.db, repos.SubmissionFilter{Role: types.RoleCustom, CustomSurveyID: &id})
}

func normalizeCustomSurvey(in *CustomSurveyInput) ([]types.CustomQuestion, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title required", apperr.ErrInvalidArgument)
	}
	in.TargetAudience = strings.ToLower(strings.TrimSpace(in.TargetAudience))
	if in.TargetAudience == "" {
		in.TargetAudience = "both"
	}
	if !targetAudiences[in.TargetAudience] {
		return nil, fmt.Errorf("%w: unknown target audience %q", apperr.ErrInvalidArgument, in.TargetAudience)
	}
	if len(in.Questions) == 0 {
		return nil, fmt.Errorf("%w: at least one question required", apperr.ErrInvalidArgument)
	}

	seen := map[string]bool{}
	out := make([]types.CustomQuestion, 0, len(in.Questions))
	for i, q := range in.Questions {
		q.ID = strings.TrimSpace(q.ID)
		if q.ID == "" {
			q.ID = "q" + strconv.Itoa(i+1)
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %q", apperr.ErrInvalidArgument, q.ID)
		}
		seen[q.ID] = true
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			return nil, fmt.Errorf("%w: question %q has no text", apperr.ErrInvalidArgument, q.ID)
		}
		switch q.Type {
		case survey.QuestionOpenEnded, survey.QuestionYesNo:
		case survey.QuestionMultipleChoice:
			if len(q.Options) < 2 {
				return nil, fmt.Errorf("%w: question %q needs at least two options", apperr.ErrInvalidArgument, q.ID)
			}
		case survey.QuestionLikert:
			if q.LikertScale == nil {
				q.LikertScale = &survey.LikertScale{Min: 1, Max: 5}
			}
			if q.LikertScale.Min >= q.LikertScale.Max {
				return nil, fmt.Errorf("%w: question %q has an empty likert range", apperr.ErrInvalidArgument, q.ID)
			}
		default:
			return nil, fmt.Errorf("%w: question %q has unknown type %q", apperr.ErrInvalidArgument, q.ID, q.Type)
		}
		out = append(out, q)
	}
	return out, nil
}

func validateCustomAnswers(questions []types.CustomQuestion, answers map[string]types.Answer) (map[string]types.Answer, error) {
	out := make(map[string]types.Answer, len(answers))
	for _, q := range questions {
		raw := strings.TrimSpace(string(answers[q.ID]))
		if raw == "" {
			if q.Required {
				return nil, fmt.Errorf("%w: question %q requires an answer", apperr.ErrInvalidArgument, q.ID)
			}
			continue
		}
		switch q.Type {
		case survey.QuestionYesNo:
			v := strings.ToLower(raw)
			if v != "yes" && v != "no" {
				return nil, fmt.Errorf("%w: question %q expects yes or no", apperr.ErrInvalidArgument, q.ID)
			}
			raw = v
		case survey.QuestionMultipleChoice:
			if !containsString(q.Options, raw) {
				return nil, fmt.Errorf("%w: question %q has no option %q", apperr.ErrInvalidArgument, q.ID, raw)
			}
		case survey.QuestionLikert:
			n, err := strconv.Atoi(raw)
			if err != nil || q.LikertScale == nil || n < q.LikertScale.Min || n > q.LikertScale.Max {
				return nil, fmt.Errorf("%w: question %q answer %q is out of range", apperr.ErrInvalidArgument, q.ID, raw)
			}
		}
		out[q.ID] = types.Answer(raw)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no answers", apperr.ErrInvalidArgument)
	}
	return out, nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
