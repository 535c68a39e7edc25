package team

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	teamerrors "github.com/chikibriki1888/telegram-vacation-bot/internal/team/errors"
)

const SettingsKeyPrefix = "teams:settings:"

func GetSettingsCacheKey(teamID string) string {
	return SettingsKeyPrefix + teamID
}

// TeamSettings is the resolved view of the per-team knobs, with defaults
// filled in for rows that were never written.
type TeamSettings struct {
	AnnualQuota   int    `json:"annual_quota"`
	PerRequestCap int    `json:"per_request_cap"`
	OverlapPolicy string `json:"overlap_policy"`
}

//go:generate mockgen -source=settings_service.go -destination=mock/settings_service_mock.go -package=mock
type SettingsService interface {
	Get(ctx context.Context, teamID string) (TeamSettings, error)
	Update(ctx context.Context, teamID string, req UpdateSettingsRequest) (TeamSettings, error)
}

type settingsService struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewSettingsService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) SettingsService {
	l := zap.L().Named("team.settings")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.settings")
	}
	return &settingsService{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *settingsService) Get(ctx context.Context, teamID string) (TeamSettings, error) {
	cacheKey := GetSettingsCacheKey(teamID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var settings TeamSettings
			if json.Unmarshal([]byte(cached), &settings) == nil {
				return settings, nil
			}
		}
	}

	// Settings are read on every submit, so collapse concurrent misses.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		settings, err := s.load(ctx, teamID)
		if err != nil {
			return TeamSettings{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(settings); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return settings, nil
	})

	if err != nil {
		return TeamSettings{}, err
	}

	return v.(TeamSettings), nil
}

func (s *settingsService) load(ctx context.Context, teamID string) (TeamSettings, error) {
	settings := TeamSettings{
		AnnualQuota:   DefaultAnnualQuota,
		PerRequestCap: DefaultPerRequestCap,
		OverlapPolicy: DefaultOverlapPolicy,
	}

	if v, ok, err := s.repo.GetSetting(ctx, SettingKey(SettingAnnualQuota, teamID)); err != nil {
		return TeamSettings{}, err
	} else if ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.AnnualQuota = n
		}
	}

	if v, ok, err := s.repo.GetSetting(ctx, SettingKey(SettingPerRequestCap, teamID)); err != nil {
		return TeamSettings{}, err
	} else if ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			settings.PerRequestCap = n
		}
	}

	if v, ok, err := s.repo.GetSetting(ctx, SettingKey(SettingOverlapPolicy, teamID)); err != nil {
		return TeamSettings{}, err
	} else if ok && isValidOverlapPolicy(v) {
		settings.OverlapPolicy = v
	}

	return settings, nil
}

func (s *settingsService) Update(ctx context.Context, teamID string, req UpdateSettingsRequest) (TeamSettings, error) {
	if req.AnnualQuota != nil {
		if *req.AnnualQuota <= 0 {
			return TeamSettings{}, teamerrors.ErrInvalidSettingValue
		}
		key := SettingKey(SettingAnnualQuota, teamID)
		if err := s.repo.UpsertSetting(ctx, key, strconv.Itoa(*req.AnnualQuota)); err != nil {
			s.logger.Error("update annual quota failed", zap.String("team_id", teamID), zap.Error(err))
			return TeamSettings{}, err
		}
	}

	if req.PerRequestCap != nil {
		if *req.PerRequestCap <= 0 {
			return TeamSettings{}, teamerrors.ErrInvalidSettingValue
		}
		key := SettingKey(SettingPerRequestCap, teamID)
		if err := s.repo.UpsertSetting(ctx, key, strconv.Itoa(*req.PerRequestCap)); err != nil {
			s.logger.Error("update per-request cap failed", zap.String("team_id", teamID), zap.Error(err))
			return TeamSettings{}, err
		}
	}

	if req.OverlapPolicy != nil {
		if !isValidOverlapPolicy(*req.OverlapPolicy) {
			return TeamSettings{}, teamerrors.ErrInvalidOverlapPolicy
		}
		key := SettingKey(SettingOverlapPolicy, teamID)
		if err := s.repo.UpsertSetting(ctx, key, *req.OverlapPolicy); err != nil {
			s.logger.Error("update overlap policy failed", zap.String("team_id", teamID), zap.Error(err))
			return TeamSettings{}, err
		}
	}

	if s.rdb != nil {
		cacheKey := GetSettingsCacheKey(teamID)
		if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
			s.logger.Error("failed to invalidate settings cache",
				zap.Error(err),
				zap.String("key", cacheKey),
			)
		}
	}

	s.logger.Info("team settings updated", zap.String("team_id", teamID))

	return s.load(ctx, teamID)
}

func isValidOverlapPolicy(v string) bool {
	switch v {
	case OverlapAllowAll, OverlapDenyAll, OverlapDenySameRole:
		return true
	}
	return false
}
