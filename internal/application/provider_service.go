package application

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-appointment-scheduler/internal/domain/entity"
	repo "github.com/oksasatya/go-appointment-scheduler/internal/domain/repository"
	"github.com/oksasatya/go-appointment-scheduler/pkg/helpers"
)

const providersCacheKey = "providers:all"

// RegisterProviderRequest is the body of POST /providers.
type RegisterProviderRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone" binding:"required,phone"`
}

type ProviderService struct {
	Users    repo.UserRepository
	Redis    *redis.Client
	CacheTTL time.Duration
	ES       *elasticsearch.Client
	ESIndex  string
	FileURL  func(path string) string
	Logger   *logrus.Logger
}

func NewProviderService(users repo.UserRepository, rdb *redis.Client, cacheTTL time.Duration, es *elasticsearch.Client, esIndex string, fileURL func(string) string, logger *logrus.Logger) *ProviderService {
	return &ProviderService{
		Users:    users,
		Redis:    rdb,
		CacheTTL: cacheTTL,
		ES:       es,
		ESIndex:  esIndex,
		FileURL:  fileURL,
		Logger:   logger,
	}
}

// List returns every user flagged as provider. Results are cached in Redis when available.
func (s *ProviderService) List(ctx context.Context) ([]entity.User, error) {
	if s.Redis != nil {
		var cached []entity.User
		ok, err := helpers.RedisGetJSON(ctx, s.Redis, providersCacheKey, &cached)
		if err == nil && ok {
			return cached, nil
		}
		if err != nil {
			s.warn(err, "providers cache read failed")
		}
	}

	providers, err := s.Users.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	for i := range providers {
		providers[i].PasswordHash = ""
		withURL(providers[i].Avatar, s.FileURL)
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, providersCacheKey, providers, s.CacheTTL); err != nil {
			s.warn(err, "providers cache write failed")
		}
	}
	return providers, nil
}

// Register creates a provider account on behalf of an existing provider.
func (s *ProviderService) Register(ctx context.Context, id Identity, req RegisterProviderRequest) (*entity.User, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if !id.valid() {
		return nil, ErrUnauthenticated
	}

	caller, err := s.Users.GetByID(ctx, id.UserID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrNotProvider
	}
	if err != nil {
		return nil, err
	}
	if !caller.Provider {
		return nil, ErrNotProvider
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	u := &entity.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    email,
		Phone:    strings.TrimSpace(req.Phone),
		Provider: true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	s.Invalidate(ctx)
	s.index(ctx, u)
	return u, nil
}

// Search performs a multi_match over provider name and email.
func (s *ProviderService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"name^2", "email"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, errors.New("provider search failed: " + res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}

// Invalidate drops the cached provider listing.
func (s *ProviderService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, providersCacheKey); err != nil {
		s.warn(err, "providers cache invalidation failed")
	}
}

func (s *ProviderService) index(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: strconv.FormatInt(u.ID, 10), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		s.warn(err, "es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("provider_id", u.ID).Warn("es index response error")
	}
}

func (s *ProviderService) warn(err error, msg string) {
	if s.Logger != nil {
		s.Logger.WithError(err).Warn(msg)
	}
}
