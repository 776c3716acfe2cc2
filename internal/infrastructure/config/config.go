package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 全局配置
// YAML文件 + BOOKSTORE_ 前缀的环境变量覆盖(如 BOOKSTORE_DATABASE_PASSWORD)
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Admin    AdminConfig    `mapstructure:"admin"`
	AI       AIConfig       `mapstructure:"ai"`
	MQ       MQConfig       `mapstructure:"mq"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Cache    CacheConfig    `mapstructure:"cache"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowOrigins    []string      `mapstructure:"allow_origins"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // mysql | memory
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN MySQL连接字符串,loc需要URL编码
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, url.QueryEscape(d.Loc))
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpire  time.Duration `mapstructure:"access_token_expire"`
	RefreshTokenExpire time.Duration `mapstructure:"refresh_token_expire"`
}

type LogConfig struct {
	Level        string `mapstructure:"level"`  // debug | info | warn | error
	Format       string `mapstructure:"format"` // console | json
	Output       string `mapstructure:"output"` // stdout | stderr | /path/to/file
	EnableCaller bool   `mapstructure:"enable_caller"`
	MaxSizeMB    int    `mapstructure:"max_size_mb"`
	MaxBackups   int    `mapstructure:"max_backups"`
	MaxAgeDays   int    `mapstructure:"max_age_days"`
}

// AdminConfig 启动时确保存在的管理员账号,Email为空时跳过
type AdminConfig struct {
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// AIConfig APIKey为空时AI接口返回服务不可用
type AIConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RatePerMinute  int           `mapstructure:"rate_per_minute"`
	Burst          int           `mapstructure:"burst"`
	BreakerTimeout time.Duration `mapstructure:"breaker_timeout"`
}

// Enabled 是否配置了API Key
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// MQConfig URL为空时不发布订单事件
type MQConfig struct {
	URL          string   `mapstructure:"url"`
	Exchange     string   `mapstructure:"exchange"`
	ExchangeType string   `mapstructure:"exchange_type"`
	Queue        string   `mapstructure:"queue"`
	RoutingKeys  []string `mapstructure:"routing_keys"`
	MetricsAddr  string   `mapstructure:"metrics_addr"` // eventlog的/metrics监听地址
}

// Enabled 是否启用消息队列
func (m MQConfig) Enabled() bool {
	return m.URL != ""
}

type TracingConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	Endpoint    string  `mapstructure:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio"`
}

// CacheConfig 图书列表缓存
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	ListTTL time.Duration `mapstructure:"list_ttl"`
}

// Load 加载配置
//  1. 当前目录存在 .env 时先载入环境变量
//  2. BOOKSTORE_ENV=prod 时读取 config.prod.yaml,否则 config.yaml
//  3. BOOKSTORE_ 前缀的环境变量覆盖文件中的值
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取.env失败: %w", err)
	}

	v := newViper()
	name := "config"
	if env := os.Getenv("BOOKSTORE_ENV"); env != "" {
		name = "config." + env
	}
	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

// LoadFile 从指定文件加载配置
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}
	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("BOOKSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper) {
	// 没有出现在文件或默认值里的key不会被AutomaticEnv覆盖,敏感项在这里占位
	for _, key := range []string{
		"database.password", "redis.password", "jwt.secret",
		"admin.name", "admin.email", "admin.password",
		"ai.api_key", "mq.url", "tracing.endpoint",
	} {
		v.SetDefault(key, "")
	}

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.allow_origins", []string{"*"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("jwt.access_token_expire", 2*time.Hour)
	v.SetDefault("jwt.refresh_token_expire", 7*24*time.Hour)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("ai.timeout", 30*time.Second)
	v.SetDefault("ai.rate_per_minute", 10)
	v.SetDefault("ai.burst", 3)
	v.SetDefault("ai.breaker_timeout", time.Minute)

	v.SetDefault("mq.exchange", "bookshelf.events")
	v.SetDefault("mq.exchange_type", "topic")
	v.SetDefault("mq.queue", "bookshelf.eventlog")
	v.SetDefault("mq.routing_keys", []string{"order.#"})
	v.SetDefault("mq.metrics_addr", ":9101")

	v.SetDefault("tracing.sample_ratio", 1.0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.list_ttl", 5*time.Minute)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Database.Driver {
	case "mysql", "memory":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", cfg.Database.Driver)
	}

	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret不能为空")
	}
	if cfg.JWT.Secret == "your-secret-key-change-in-production" && cfg.Server.Mode == "release" {
		return errors.New("生产环境必须修改JWT密钥")
	}

	if cfg.Admin.Email != "" && cfg.Admin.Password == "" {
		return errors.New("配置了管理员邮箱但未配置密码")
	}

	if cfg.Tracing.Enabled && cfg.Tracing.Endpoint == "" {
		return errors.New("启用链路追踪时必须配置tracing.endpoint")
	}

	return nil
}
