package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/transify-app/transify-api/internal/dto"
	"github.com/transify-app/transify-api/internal/models"
	"github.com/transify-app/transify-api/internal/repository"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

// AuditEntry captures the details required to persist an audit trail record.
type AuditEntry struct {
	Action         models.AuditAction
	ActorID        string
	ActorEmail     string
	OrganizationID string
	TargetUserID   string
	Details        string
	Metadata       map[string]interface{}
}

// AuditRecorder defines behaviour for appending audit trail entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// AuditService exposes methods to append and query the audit trail.
type AuditService interface {
	AuditRecorder
	Query(ctx context.Context, organizationID string, limit int) ([]dto.AuditLogResponse, error)
}

type auditService struct {
	repo   repository.AuditLogRepository
	nats   *nats.Conn
	logger zerolog.Logger
}

// NewAuditService constructs the audit trail service. The NATS connection is
// optional; when present each recorded entry is also published for downstream
// consumers.
func NewAuditService(repo repository.AuditLogRepository, natsConn *nats.Conn, logger zerolog.Logger) AuditService {
	return &auditService{
		repo:   repo,
		nats:   natsConn,
		logger: logger.With().Str("component", "audit_service").Logger(),
	}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) error {
	if strings.TrimSpace(string(entry.Action)) == "" {
		return fmt.Errorf("audit action is required")
	}
	if strings.TrimSpace(entry.OrganizationID) == "" {
		return fmt.Errorf("audit organization is required")
	}

	model := models.AuditLog{
		ID:                uuid.NewString(),
		ActionType:        entry.Action,
		PerformedByUserID: entry.ActorID,
		PerformedByEmail:  strings.ToLower(entry.ActorEmail),
		OrganizationID:    entry.OrganizationID,
		TargetUserID:      entry.TargetUserID,
		Details:           entry.Details,
		Metadata:          jsonMap(entry.Metadata),
	}

	if err := s.repo.Create(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", string(entry.Action)).Msg("failed to persist audit entry")
		return err
	}

	s.publish(model)
	return nil
}

func (s *auditService) Query(ctx context.Context, organizationID string, limit int) ([]dto.AuditLogResponse, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}

	entries, err := s.repo.ListByOrganization(ctx, organizationID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.AuditLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, dto.NewAuditLogResponse(entry))
	}
	return responses, nil
}

// publish fans the entry out on NATS when a connection is configured. Delivery
// is best-effort; the persisted row is the source of truth.
func (s *auditService) publish(entry models.AuditLog) {
	if s.nats == nil {
		return
	}

	payload, err := json.Marshal(dto.NewAuditLogResponse(entry))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode audit event")
		return
	}

	subject := "transify.audit." + entry.OrganizationID
	if err := s.nats.Publish(subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", subject).Msg("audit event publish failed")
	}
}

func jsonMap(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return nil
	}
	data := datatypes.JSONMap{}
	for key, value := range metadata {
		data[key] = value
	}
	return data
}
