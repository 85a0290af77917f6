package settings

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	settingsRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/settings"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/settings/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Defaults значения настроек, когда в БД нет ни настроек филиала, ни настроек фичи
type Defaults struct {
	SlotDurationMinutes int
	DefaultCapacity     int
	DayStart            types.TimeString
}

// Service сервис настроек слотов
type Service struct {
	repo     SettingsRepository
	defaults Defaults
	logger   Logger
}

// NewService создает новый экземпляр сервиса настроек
func NewService(repo SettingsRepository, defaults Defaults, logger Logger) *Service {
	return &Service{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Effective возвращает действующие настройки филиала.
// Приоритет: филиал > фича > значения по умолчанию из конфигурации.
func (s *Service) Effective(ctx context.Context, feature domain.Feature, branchID int64) (*domain.SlotSettings, error) {
	found, err := s.repo.GetWithHierarchy(ctx, feature, branchID)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Effective: repository error for feature=%s, branch=%d: %v", feature, branchID, err)
		return nil, fmt.Errorf("%w: Effective - repository error: %v", ErrInternal, err)
	}

	return s.defaultSettings(feature), nil
}

// GetEffective возвращает действующие настройки филиала для API
func (s *Service) GetEffective(ctx context.Context, feature domain.Feature, branchID int64) (*models.SettingsResponse, error) {
	if err := validateScope(feature, &branchID); err != nil {
		return nil, err
	}

	effective, err := s.Effective(ctx, feature, branchID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("GetEffective: feature=%s, branch=%d, level=%s", feature, branchID, effective.Level())
	return models.FromDomain(effective), nil
}

// Upsert создает настройки уровня или изменяет существующие.
// Новые настройки наследуют незаданные поля от вышестоящего уровня.
func (s *Service) Upsert(ctx context.Context, req *models.UpsertSettingsRequest) (*models.SettingsResponse, error) {
	s.logger.Info("Upsert: feature=%s, branch=%s", req.Feature, scope(req.BranchID))

	// 1. Валидируем входные данные
	if err := validateScope(req.Feature, req.BranchID); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	// 2. Ищем настройки ровно этого уровня
	current, err := s.repo.GetByFeatureAndBranch(ctx, req.Feature, req.BranchID)
	if err != nil && !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("Upsert: failed to get settings: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	// 3. Изменяем существующие настройки
	if current != nil {
		req.ApplyTo(current)
		if err := validateSettings(current); err != nil {
			s.logger.Warn("Upsert: validation failed: %v", err)
			return nil, err
		}

		updated, err := s.repo.Update(ctx, current.ID, current)
		if err != nil {
			if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				return nil, ErrSettingsNotFound
			}
			s.logger.Error("Upsert: failed to update settings id=%d: %v", current.ID, err)
			return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
		}

		s.logger.Info("Upsert: settings id=%d updated", updated.ID)
		return models.FromDomain(updated), nil
	}

	// 4. Создаем новые настройки от вышестоящего уровня
	parent, err := s.parent(ctx, req.Feature, req.BranchID)
	if err != nil {
		return nil, err
	}

	fresh := &domain.SlotSettings{
		Feature:             req.Feature,
		BranchID:            req.BranchID,
		SlotDurationMinutes: parent.SlotDurationMinutes,
		DefaultCapacity:     parent.DefaultCapacity,
		DayStart:            parent.DayStart,
	}
	req.ApplyTo(fresh)
	if err := validateSettings(fresh); err != nil {
		s.logger.Warn("Upsert: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, fresh)
	if errors.Is(err, settingsRepo.ErrSettingsAlreadyExists) {
		s.logger.Warn("Upsert: settings for feature=%s, branch=%s created concurrently", req.Feature, scope(req.BranchID))
		return nil, ErrConflict
	}
	if err != nil {
		s.logger.Error("Upsert: failed to create settings: %v", err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: settings id=%d created (level: %s)", created.ID, created.Level())
	return models.FromDomain(created), nil
}

// Reset удаляет настройки уровня; дальше действуют настройки вышестоящего уровня
func (s *Service) Reset(ctx context.Context, feature domain.Feature, branchID *int64) error {
	if err := validateScope(feature, branchID); err != nil {
		return err
	}

	current, err := s.repo.GetByFeatureAndBranch(ctx, feature, branchID)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return ErrSettingsNotFound
		}
		s.logger.Error("Reset: failed to get settings: %v", err)
		return fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	if err := s.repo.Delete(ctx, current.ID); err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return ErrSettingsNotFound
		}
		s.logger.Error("Reset: failed to delete settings id=%d: %v", current.ID, err)
		return fmt.Errorf("%w: Reset - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Reset: settings id=%d removed (feature=%s, branch=%s)", current.ID, feature, scope(branchID))
	return nil
}

// parent возвращает настройки, от которых наследуется новый уровень
func (s *Service) parent(ctx context.Context, feature domain.Feature, branchID *int64) (*domain.SlotSettings, error) {
	if branchID == nil {
		return s.defaultSettings(feature), nil
	}

	featureLevel, err := s.repo.GetByFeatureAndBranch(ctx, feature, nil)
	if err == nil {
		return featureLevel, nil
	}
	if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
		s.logger.Error("parent: failed to get feature settings: %v", err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	return s.defaultSettings(feature), nil
}

func (s *Service) defaultSettings(feature domain.Feature) *domain.SlotSettings {
	return &domain.SlotSettings{
		Feature:             feature,
		SlotDurationMinutes: s.defaults.SlotDurationMinutes,
		DefaultCapacity:     s.defaults.DefaultCapacity,
		DayStart:            s.defaults.DayStart,
	}
}

func scope(branchID *int64) string {
	if branchID == nil {
		return "all"
	}
	return strconv.FormatInt(*branchID, 10)
}
