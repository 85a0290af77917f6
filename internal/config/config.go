package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/slotengine"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Backend  BackendConfig  `toml:"backend"`
	Calendar CalendarConfig `toml:"calendar"`
	Cache    CacheConfig    `toml:"cache"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BackendConfig настройки клиента удаленного backend API слотов
type BackendConfig struct {
	URL            string `toml:"url"`
	Timeout        int    `toml:"timeout"`          // секунды
	Retries        int    `toml:"retries"`          // повторы после первой попытки
	RetryBackoffMs int    `toml:"retry_backoff_ms"` // линейный шаг задержки
	FetchPath      string `toml:"fetch_path"`       // {feature} заменяется на имя фичи
	SubmitPath     string `toml:"submit_path"`
}

// CalendarConfig настройки построения календаря
type CalendarConfig struct {
	DefaultDayStart      string `toml:"default_day_start"`
	DefaultSlotDuration  int    `toml:"default_slot_duration_minutes"` // если для фичи и филиала нет настроек
	DefaultSlotCapacity  int    `toml:"default_slot_capacity"`
	AppointmentWeekStart string `toml:"appointment_week_start"`
	WetlandWeekStart     string `toml:"wetland_week_start"`
}

// BookingConfig ограничения выдачи свободных слотов клиентам
type BookingConfig struct {
	MinNoticeMinutes int `toml:"min_notice_minutes"` // слоты сегодняшнего дня, начинающиеся раньше, не показываются
	AdvanceDays      int `toml:"advance_days"`       // 0 - без ограничения
}

// CacheConfig настройки кэша последних успешно загруженных календарей
type CacheConfig struct {
	Size int `toml:"size"`
}

// Load загружает конфигурацию из TOML файла, применяет значения по умолчанию и валидирует ее
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(string(data))
}

// Parse разбирает конфигурацию из строки в формате TOML
func Parse(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "slotscheduler"
	}

	if c.Backend.Timeout == 0 {
		c.Backend.Timeout = 10
	}
	if c.Backend.Retries == 0 {
		c.Backend.Retries = 2
	}
	if c.Backend.RetryBackoffMs == 0 {
		c.Backend.RetryBackoffMs = 200
	}
	if c.Backend.FetchPath == "" {
		c.Backend.FetchPath = "/api/{feature}/slots/information"
	}
	if c.Backend.SubmitPath == "" {
		c.Backend.SubmitPath = "/api/{feature}/slots/save"
	}

	if c.Calendar.DefaultDayStart == "" {
		c.Calendar.DefaultDayStart = domain.DefaultDayStart
	}
	if c.Calendar.DefaultSlotDuration == 0 {
		c.Calendar.DefaultSlotDuration = domain.DefaultSlotDurationMinutes
	}
	if c.Calendar.DefaultSlotCapacity == 0 {
		c.Calendar.DefaultSlotCapacity = domain.DefaultSlotCapacity
	}
	if c.Calendar.AppointmentWeekStart == "" {
		c.Calendar.AppointmentWeekStart = slotengine.WeekStartSunday.String()
	}
	if c.Calendar.WetlandWeekStart == "" {
		c.Calendar.WetlandWeekStart = slotengine.WeekStartMonday.String()
	}

	if c.Cache.Size == 0 {
		c.Cache.Size = 256
	}
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort < 1 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid server.http_port: %d", c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url is required")
	}
	if c.Backend.Retries < 0 {
		return fmt.Errorf("invalid backend.retries: %d", c.Backend.Retries)
	}
	if c.Backend.RetryBackoffMs < 0 {
		return fmt.Errorf("invalid backend.retry_backoff_ms: %d", c.Backend.RetryBackoffMs)
	}
	dayStart, err := types.NewTimeStringFromString(c.Calendar.DefaultDayStart)
	if err != nil {
		return fmt.Errorf("invalid calendar.default_day_start: %w", err)
	}
	// дальше используется только каноничная форма "HH:MM"
	c.Calendar.DefaultDayStart = dayStart.String()
	if c.Calendar.DefaultSlotDuration < domain.MinSlotDurationMinutes || c.Calendar.DefaultSlotDuration > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("invalid calendar.default_slot_duration_minutes: %d", c.Calendar.DefaultSlotDuration)
	}
	if _, err := dayStart.AddMinutes(c.Calendar.DefaultSlotDuration); err != nil {
		return fmt.Errorf("invalid calendar defaults: first slot of %d minutes from %s crosses midnight",
			c.Calendar.DefaultSlotDuration, dayStart)
	}
	if c.Calendar.DefaultSlotCapacity < domain.MinSlotCapacity || c.Calendar.DefaultSlotCapacity > domain.MaxSlotCapacity {
		return fmt.Errorf("invalid calendar.default_slot_capacity: %d", c.Calendar.DefaultSlotCapacity)
	}
	if _, err := slotengine.ParseWeekStart(c.Calendar.AppointmentWeekStart); err != nil {
		return fmt.Errorf("invalid calendar.appointment_week_start: %w", err)
	}
	if _, err := slotengine.ParseWeekStart(c.Calendar.WetlandWeekStart); err != nil {
		return fmt.Errorf("invalid calendar.wetland_week_start: %w", err)
	}
	if c.Cache.Size < 1 {
		return fmt.Errorf("invalid cache.size: %d", c.Cache.Size)
	}
	if c.Booking.MinNoticeMinutes < 0 {
		return fmt.Errorf("invalid booking.min_notice_minutes: %d", c.Booking.MinNoticeMinutes)
	}
	if c.Booking.AdvanceDays < 0 {
		return fmt.Errorf("invalid booking.advance_days: %d", c.Booking.AdvanceDays)
	}
	return nil
}

// DayStart начало рабочего дня по умолчанию; валидно после Validate
func (c CalendarConfig) DayStart() types.TimeString {
	return types.TimeString(c.DefaultDayStart)
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// BackendTimeout таймаут запроса к backend API
func (b BackendConfig) BackendTimeout() time.Duration {
	return time.Duration(b.Timeout) * time.Second
}

// RetryBackoff шаг линейной задержки между повторами
func (b BackendConfig) RetryBackoff() time.Duration {
	return time.Duration(b.RetryBackoffMs) * time.Millisecond
}

// WeekStarts возвращает первый день недели календаря для каждой фичи
func (c CalendarConfig) WeekStarts() map[domain.Feature]slotengine.WeekStart {
	appointment, _ := slotengine.ParseWeekStart(c.AppointmentWeekStart)
	wetland, _ := slotengine.ParseWeekStart(c.WetlandWeekStart)
	return map[domain.Feature]slotengine.WeekStart{
		domain.FeatureAppointment: appointment,
		domain.FeatureWetland:     wetland,
	}
}
