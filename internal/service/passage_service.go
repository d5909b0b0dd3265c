package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/domain/repository"
	apperrors "github.com/yourusername/cars-practice-api/internal/pkg/errors"
)

const (
	passageListCacheKey = "passages:list"
	passageCacheKeyFmt  = "passages:%d:full"

	defaultPassageCacheTTL = 30 * time.Minute
)

// PassageCacheKey возвращает ключ кеша полного пассажа
func PassageCacheKey(id uint) string {
	return fmt.Sprintf(passageCacheKeyFmt, id)
}

// PassageListCacheKey возвращает ключ кеша списка пассажей
func PassageListCacheKey() string {
	return passageListCacheKey
}

// PassageService отдает пассажи с вопросами. Содержимое не меняется через API,
// поэтому ответы кешируются; ошибки кеша не влияют на результат.
type PassageService struct {
	passageRepo repository.PassageRepository
	cache       repository.CacheRepository
	ttl         time.Duration
}

// NewPassageService создает сервис пассажей. cache может быть nil.
func NewPassageService(passageRepo repository.PassageRepository, cache repository.CacheRepository, ttl time.Duration) *PassageService {
	if ttl <= 0 {
		ttl = defaultPassageCacheTTL
	}
	return &PassageService{
		passageRepo: passageRepo,
		cache:       cache,
		ttl:         ttl,
	}
}

// ListPassages возвращает краткие данные всех пассажей
func (s *PassageService) ListPassages(ctx context.Context) ([]entity.Passage, error) {
	var passages []entity.Passage
	if s.readCache(ctx, passageListCacheKey, &passages) {
		return passages, nil
	}

	passages, err := s.passageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list passages: %w", err)
	}
	s.writeCache(ctx, passageListCacheKey, passages)
	return passages, nil
}

// GetPassageWithQuestions возвращает пассаж с вопросами по номеру и вариантами по букве
func (s *PassageService) GetPassageWithQuestions(ctx context.Context, id uint) (*entity.Passage, error) {
	key := PassageCacheKey(id)
	var cached entity.Passage
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	passage, err := s.passageRepo.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, ErrPassageNotFound
		}
		return nil, fmt.Errorf("get passage #%d: %w", id, err)
	}
	s.writeCache(ctx, key, passage)
	return passage, nil
}

func (s *PassageService) readCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	err := s.cache.GetJSON(ctx, key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		log.Printf("[PassageService] Ошибка чтения кеша %s: %v", key, err)
	}
	return false
}

func (s *PassageService) writeCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		log.Printf("[PassageService] Ошибка записи кеша %s: %v", key, err)
	}
}
