// Package session implements the tutoring session lifecycle: start,
// conversation turns against the tutor cascade, end, and paged history.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"lingua_tutor_server/internal/dao/mysql/repository"
	myredis "lingua_tutor_server/internal/dao/redis"
	"lingua_tutor_server/internal/dto/request"
	"lingua_tutor_server/internal/dto/respond"
	"lingua_tutor_server/internal/model"
	"lingua_tutor_server/internal/provider"
	"lingua_tutor_server/pkg/constants"
	"lingua_tutor_server/pkg/enum/message/sender_enum"
	"lingua_tutor_server/pkg/enum/session/session_status_enum"
	"lingua_tutor_server/pkg/errorx"
	"lingua_tutor_server/pkg/util/random"
	"lingua_tutor_server/pkg/util/snowflake"
)

// ReplyGenerator is the slice of the tutor cascade this package needs.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, history []provider.ChatMessage, p provider.Persona) provider.TextResult
}

// EventPublisher fans session events out to connected clients. Nil disables
// fan-out.
type EventPublisher interface {
	PublishSessionEvent(sessionUuid string, event any)
}

type sessionService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	tutor  ReplyGenerator
	events EventPublisher

	// turnLocks serializes conversation turns per session.
	turnLocks sync.Map // session uuid -> *sync.Mutex
}

// NewSessionService wires the session service. events may be nil.
func NewSessionService(repos *repository.Repositories, cache myredis.AsyncCacheService, tutorSvc ReplyGenerator, events EventPublisher) *sessionService {
	return &sessionService{
		repos:  repos,
		cache:  cache,
		tutor:  tutorSvc,
		events: events,
	}
}

// lockTurn acquires the per-session turn mutex.
func (s *sessionService) lockTurn(sessionUuid string) *sync.Mutex {
	mu, _ := s.turnLocks.LoadOrStore(sessionUuid, &sync.Mutex{})
	lock := mu.(*sync.Mutex)
	lock.Lock()
	return lock
}

// StartSession opens a new tutoring session. A user can hold at most one
// active session; the check is re-run under a row lock inside the insert
// transaction so concurrent starts cannot both pass.
func (s *sessionService) StartSession(ctx context.Context, userID string, req request.StartSessionRequest) (*respond.StartSessionRespond, error) {
	user, err := s.repos.User.FindByUuid(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "account not found")
		}
		zap.L().Error("start session user lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if _, err := s.repos.Session.FindActiveByUser(userID); err == nil {
		return nil, errorx.New(errorx.CodeSessionActive, "you already have an active session, end it first")
	} else if !errorx.IsNotFound(err) {
		zap.L().Error("active session check failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	subject := req.Subject
	if subject == "" {
		subject = constants.DEFAULT_SUBJECT
	}

	session := &model.Session{
		Uuid:      "T" + random.GetNowAndLenRandomString(11),
		UserUuid:  user.Uuid,
		UserName:  user.Name,
		Language:  user.Language,
		TutorName: user.TutorName,
		Subject:   subject,
		Status:    session_status_enum.ACTIVE,
		StartedAt: time.Now(),
	}
	// Opening line from the tutor, persisted as the first message. Both
	// rows commit together so an active session always has a transcript.
	opening := s.tutor.GenerateReply(ctx, nil, s.persona(session))
	openingMsg := &model.Message{
		Uuid:        snowflake.GenerateID(),
		SessionUuid: session.Uuid,
		Sender:      sender_enum.AI,
		Content:     opening.Text,
		SendAt:      time.Now(),
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		if _, err := tx.Session.FindActiveByUserForUpdate(userID); err == nil {
			return errorx.New(errorx.CodeSessionActive, "you already have an active session, end it first")
		} else if !errorx.IsNotFound(err) {
			return err
		}
		if err := tx.Session.Create(session); err != nil {
			return err
		}
		return tx.Message.Create(openingMsg)
	})
	if err != nil {
		if errorx.GetCode(err) == errorx.CodeSessionActive {
			return nil, err
		}
		zap.L().Error("session create failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	s.invalidateHistory(userID)

	return &respond.StartSessionRespond{
		Session:  toSessionRespond(session, 1),
		Messages: []respond.MessageRespond{toMessageRespond(openingMsg)},
	}, nil
}

// PostMessage appends one learner turn and the tutor's reply. Turns on the
// same session are serialized by a per-session mutex, so interleaved clients
// cannot corrupt the transcript ordering.
func (s *sessionService) PostMessage(ctx context.Context, userID string, req request.PostMessageRequest) (*respond.PostMessageRespond, error) {
	lock := s.lockTurn(req.SessionUuid)
	defer lock.Unlock()

	session, err := s.repos.Session.FindByUuid(req.SessionUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "session not found")
		}
		zap.L().Error("session lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if session.UserUuid != userID {
		// do not reveal other users' session ids
		return nil, errorx.New(errorx.CodeNotFound, "session not found")
	}
	if session.Status != session_status_enum.ACTIVE {
		s.turnLocks.Delete(req.SessionUuid)
		return nil, errorx.New(errorx.CodeSessionNotActive, "this session has ended")
	}

	recent, err := s.repos.Message.FindRecentBySession(session.Uuid, constants.HISTORY_WINDOW)
	if err != nil {
		zap.L().Error("history load failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	history := make([]provider.ChatMessage, 0, len(recent)+1)
	for _, m := range recent {
		history = append(history, provider.ChatMessage{Sender: m.Sender, Content: m.Content})
	}
	history = append(history, provider.ChatMessage{Sender: sender_enum.USER, Content: req.Content})

	reply := s.tutor.GenerateReply(ctx, history, s.persona(session))

	attachments := ""
	if len(req.Attachments) > 0 {
		raw, err := json.Marshal(req.Attachments)
		if err != nil {
			return nil, errorx.ErrInvalidParam
		}
		attachments = string(raw)
	}

	now := time.Now()
	userMsg := &model.Message{
		Uuid:        snowflake.GenerateID(),
		SessionUuid: session.Uuid,
		Sender:      sender_enum.USER,
		Content:     req.Content,
		Attachments: attachments,
		SendAt:      now,
	}
	aiMsg := &model.Message{
		Uuid:        snowflake.GenerateID(),
		SessionUuid: session.Uuid,
		Sender:      sender_enum.AI,
		Content:     reply.Text,
		SendAt:      now,
	}
	err = s.repos.Transaction(func(tx *repository.Repositories) error {
		return tx.Message.CreateBatch([]*model.Message{userMsg, aiMsg})
	})
	if err != nil {
		zap.L().Error("turn insert failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := &respond.PostMessageRespond{
		UserMessage: toMessageRespond(userMsg),
		Reply:       toMessageRespond(aiMsg),
		Provider:    reply.Provider,
		Degraded:    reply.Degraded,
	}

	if s.events != nil {
		s.events.PublishSessionEvent(session.Uuid, map[string]any{
			"type":     "new-message",
			"messages": []respond.MessageRespond{rsp.UserMessage, rsp.Reply},
			"degraded": reply.Degraded,
		})
	}
	s.invalidateHistory(userID)

	return rsp, nil
}

// EndSession closes a session. Ending an already-ended session is a no-op
// returning the stored record, so retries are safe.
func (s *sessionService) EndSession(userID string, req request.EndSessionRequest) (*respond.SessionRespond, error) {
	session, err := s.repos.Session.FindByUuid(req.SessionUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "session not found")
		}
		zap.L().Error("session lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if session.UserUuid != userID {
		return nil, errorx.New(errorx.CodeNotFound, "session not found")
	}

	count, err := s.repos.Message.CountBySession(session.Uuid)
	if err != nil {
		zap.L().Error("message count failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	if session.Status == session_status_enum.ENDED {
		rsp := toSessionRespond(session, count)
		return &rsp, nil
	}

	now := time.Now()
	duration := int(now.Sub(session.StartedAt) / time.Minute)
	if err := s.repos.Session.UpdateFields(session.Uuid, map[string]interface{}{
		"status":           session_status_enum.ENDED,
		"ended_at":         now,
		"duration_minutes": duration,
	}); err != nil {
		zap.L().Error("session end failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	session.Status = session_status_enum.ENDED
	session.EndedAt = sql.NullTime{Time: now, Valid: true}
	session.DurationMinutes = duration

	// ended sessions take no more turns, so the turn mutex can go
	s.turnLocks.Delete(session.Uuid)

	if s.events != nil {
		s.events.PublishSessionEvent(session.Uuid, map[string]any{
			"type": "session-ended",
		})
	}
	s.invalidateHistory(userID)

	rsp := toSessionRespond(session, count)
	return &rsp, nil
}

// GetSessionHistory pages through the caller's sessions, newest first.
// Pages are cached; writers invalidate the user's pages asynchronously.
func (s *sessionService) GetSessionHistory(userID string, req request.SessionHistoryRequest) (*respond.SessionHistoryRespond, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	cacheKey := fmt.Sprintf("session_history:%s:%d:%d", userID, page, pageSize)
	if cached, err := s.cache.Get(context.Background(), cacheKey); err == nil && cached != "" {
		var rsp respond.SessionHistoryRespond
		if err := json.Unmarshal([]byte(cached), &rsp); err == nil {
			return &rsp, nil
		}
	}

	total, err := s.repos.Session.CountByUser(userID)
	if err != nil {
		zap.L().Error("session count failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	sessions, err := s.repos.Session.FindByUserPaged(userID, (page-1)*pageSize, pageSize)
	if err != nil {
		zap.L().Error("session page load failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	rsp := &respond.SessionHistoryRespond{
		Sessions: make([]respond.SessionRespond, 0, len(sessions)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i := range sessions {
		count, err := s.repos.Message.CountBySession(sessions[i].Uuid)
		if err != nil {
			zap.L().Error("message count failed", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		rsp.Sessions = append(rsp.Sessions, toSessionRespond(&sessions[i], count))
	}

	if raw, err := json.Marshal(rsp); err == nil {
		s.cache.SubmitTask(func() {
			if err := s.cache.Set(context.Background(), cacheKey, string(raw), 10*time.Minute); err != nil {
				zap.L().Warn("history cache write failed", zap.Error(err))
			}
		})
	}

	return rsp, nil
}

// GetSession returns one of the caller's sessions.
func (s *sessionService) GetSession(userID, sessionUuid string) (*respond.SessionRespond, error) {
	session, err := s.repos.Session.FindByUuid(sessionUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "session not found")
		}
		zap.L().Error("session lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if session.UserUuid != userID {
		return nil, errorx.New(errorx.CodeNotFound, "session not found")
	}
	count, err := s.repos.Message.CountBySession(sessionUuid)
	if err != nil {
		zap.L().Error("message count failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := toSessionRespond(session, count)
	return &rsp, nil
}

// GetSessionMessages returns a session's full transcript in order.
func (s *sessionService) GetSessionMessages(userID, sessionUuid string) ([]respond.MessageRespond, error) {
	session, err := s.repos.Session.FindByUuid(sessionUuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeNotFound, "session not found")
		}
		zap.L().Error("session lookup failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if session.UserUuid != userID {
		return nil, errorx.New(errorx.CodeNotFound, "session not found")
	}

	messages, err := s.repos.Message.FindBySession(sessionUuid)
	if err != nil {
		zap.L().Error("transcript load failed", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	rsp := make([]respond.MessageRespond, 0, len(messages))
	for i := range messages {
		rsp = append(rsp, toMessageRespond(&messages[i]))
	}
	return rsp, nil
}

func (s *sessionService) persona(session *model.Session) provider.Persona {
	return provider.Persona{
		UserName:  session.UserName,
		TutorName: session.TutorName,
		Language:  session.Language,
		Subject:   session.Subject,
	}
}

// invalidateHistory schedules removal of the user's cached history pages.
func (s *sessionService) invalidateHistory(userID string) {
	s.cache.SubmitTask(func() {
		if err := s.cache.DeleteByPattern(context.Background(), "session_history:"+userID+":*"); err != nil {
			zap.L().Warn("history cache invalidation failed", zap.Error(err))
		}
	})
}

func toSessionRespond(session *model.Session, messageCount int64) respond.SessionRespond {
	rsp := respond.SessionRespond{
		Uuid:            session.Uuid,
		Subject:         session.Subject,
		TutorName:       session.TutorName,
		Language:        session.Language,
		Status:          session.Status,
		StartedAt:       session.StartedAt.Format(time.RFC3339),
		DurationMinutes: session.DurationMinutes,
		MessageCount:    messageCount,
	}
	if session.EndedAt.Valid {
		rsp.EndedAt = session.EndedAt.Time.Format(time.RFC3339)
	}
	return rsp
}

func toMessageRespond(message *model.Message) respond.MessageRespond {
	rsp := respond.MessageRespond{
		Uuid:        message.Uuid,
		SessionUuid: message.SessionUuid,
		Sender:      message.Sender,
		Content:     message.Content,
		SendAt:      message.SendAt.Format(time.RFC3339),
	}
	if message.Attachments != "" {
		// stored as a json array of urls
		_ = json.Unmarshal([]byte(message.Attachments), &rsp.Attachments)
	}
	return rsp
}
