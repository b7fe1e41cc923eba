package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/conteo-api/internal/application/dto"
	"github.com/jhoicas/conteo-api/internal/domain"
	"github.com/jhoicas/conteo-api/internal/domain/entity"
	"github.com/jhoicas/conteo-api/internal/domain/reconcile"
	"github.com/jhoicas/conteo-api/internal/domain/repository"
)

// SessionUseCase casos de uso de sesiones de conteo y recepción: ciclo de
// vida (crear, unirse, cerrar), escaneo colaborativo, fusión, comparación y
// finalización contra stock.
type SessionUseCase struct {
	txRunner    TxRunner
	sessionRepo repository.SessionRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	recvRepo    repository.ReceivingRepository
	reportGen   ReportGenerator
}

// NewSessionUseCase construye el caso de uso.
func NewSessionUseCase(
	txRunner TxRunner,
	sessionRepo repository.SessionRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	recvRepo repository.ReceivingRepository,
	reportGen ReportGenerator,
) *SessionUseCase {
	return &SessionUseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		recvRepo:    recvRepo,
		reportGen:   reportGen,
	}
}

// Create abre una sesión nueva: activa, no final, con el creador como primer
// miembro y sin líneas.
func (uc *SessionUseCase) Create(in dto.CreateSessionRequest, companyID, userID string) (*dto.SessionResponse, error) {
	if in.Name == "" || in.StoreID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.SessionType != entity.SessionTypeCounting && in.SessionType != entity.SessionTypeReceiving {
		return nil, domain.ErrInvalidInput
	}
	if in.ShipmentID != "" && in.SessionType != entity.SessionTypeReceiving {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	s := &entity.Session{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Type:       in.SessionType,
		CompanyID:  companyID,
		StoreID:    in.StoreID,
		ShipmentID: in.ShipmentID,
		IsActive:   true,
		IsFinal:    false,
		CreatedBy:  userID,
		CreatedAt:  now,
		Members:    map[string]entity.Member{userID: {UserID: userID, JoinedAt: now}},
		Lines:      map[entity.ItemKey]entity.SessionLine{},
	}
	if err := uc.sessionRepo.Create(s); err != nil {
		return nil, err
	}
	return uc.toResponse(s, false), nil
}

// Join agrega al usuario como miembro de una sesión abierta. Unirse dos veces
// es idempotente.
func (uc *SessionUseCase) Join(ctx context.Context, sessionID, companyID, userID string) (*dto.SessionResponse, error) {
	var out *entity.Session
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.ReceivingRepository,
	) error {
		s, err := uc.ownedForUpdate(sessionRepo, sessionID, companyID)
		if err != nil {
			return err
		}
		if !s.IsOpen() {
			return &reconcile.ClosedError{SessionID: s.ID}
		}
		if _, ok := s.Members[userID]; ok {
			out = s
			return nil
		}
		next := s.Clone()
		next.Members[userID] = entity.Member{UserID: userID, JoinedAt: time.Now()}
		if err := sessionRepo.Save(next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(out, false), nil
}

// Close cierra la sesión sin afectar stock: deja de aceptar escaneos y
// fusiones, pero no queda final. Una sesión counting termina aquí.
func (uc *SessionUseCase) Close(ctx context.Context, sessionID, companyID string) (*dto.SessionResponse, error) {
	var out *entity.Session
	err := uc.txRunner.Run(ctx, func(
		sessionRepo repository.SessionRepository,
		_ repository.StockRepository,
		_ repository.ReceivingRepository,
	) error {
		s, err := uc.ownedForUpdate(sessionRepo, sessionID, companyID)
		if err != nil {
			return err
		}
		if !s.IsOpen() {
			return &reconcile.ClosedError{SessionID: s.ID}
		}
		now := time.Now()
		next := s.Clone()
		next.IsActive = false
		next.CompletedAt = &now
		if err := sessionRepo.Save(next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(out, false), nil
}

// Get devuelve el estado completo de la sesión, con líneas y desglose por
// contribuyente enriquecido con el directorio de usuarios.
func (uc *SessionUseCase) Get(sessionID, companyID string) (*dto.SessionResponse, error) {
	s, err := uc.owned(sessionID, companyID)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(s, true), nil
}

// List pagina las sesiones de la empresa según los filtros dados.
func (uc *SessionUseCase) List(in dto.ListSessionsRequest, companyID string) (*dto.SessionListResponse, error) {
	in.DefaultPage()
	filter := repository.SessionFilter{
		CompanyID:   companyID,
		StoreID:     in.StoreID,
		SessionType: in.SessionType,
		Search:      in.Search,
		Limit:       in.Limit,
		Offset:      in.Offset,
	}
	if in.SessionType != "" &&
		in.SessionType != entity.SessionTypeCounting &&
		in.SessionType != entity.SessionTypeReceiving {
		return nil, domain.ErrInvalidInput
	}
	if in.IsActive != "" {
		active := in.IsActive == "true"
		filter.IsActive = &active
	}
	if in.StartDate != "" {
		t, err := time.Parse("2006-01-02", in.StartDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		filter.StartDate = &t
	}
	if in.EndDate != "" {
		t, err := time.Parse("2006-01-02", in.EndDate)
		if err != nil {
			return nil, domain.ErrInvalidInput
		}
		end := t.Add(24 * time.Hour)
		filter.EndDate = &end
	}

	sessions, total, err := uc.sessionRepo.List(filter)
	if err != nil {
		return nil, err
	}
	out := &dto.SessionListResponse{
		Sessions: make([]dto.SessionSummaryResponse, 0, len(sessions)),
		Page: dto.PageResponse{
			Total:   total,
			Limit:   in.Limit,
			Offset:  in.Offset,
			HasMore: in.Offset+len(sessions) < total,
		},
	}
	for _, s := range sessions {
		out.Sessions = append(out.Sessions, toSummary(s))
	}
	return out, nil
}

// owned carga la sesión verificando que pertenezca a la empresa del caller.
func (uc *SessionUseCase) owned(sessionID, companyID string) (*entity.Session, error) {
	s, err := uc.sessionRepo.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}

// ownedForUpdate igual que owned pero con bloqueo de fila, dentro de una tx.
func (uc *SessionUseCase) ownedForUpdate(repo repository.SessionRepository, sessionID, companyID string) (*entity.Session, error) {
	s, err := repo.GetForUpdate(sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if s.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return s, nil
}
