package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix 環境變數前綴，例如 QNA_AUTH_SECRET_KEY 對應 auth.secret_key
const EnvPrefix = "QNA"

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	DB     DBConfig     `mapstructure:"db"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Address            string   `mapstructure:"address" validate:"required"`
	Mode               string   `mapstructure:"mode" validate:"oneof=debug release test"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
	FrontendDir        string   `mapstructure:"frontend_dir"`
	SSL                bool     `mapstructure:"ssl"`
}

// DBConfig 資料庫連線設定
// Driver 為 sqlite 時只使用 Path，其餘欄位給 postgres 使用
type DBConfig struct {
	Driver          string `mapstructure:"driver" validate:"oneof=postgres sqlite"`
	Host            string `mapstructure:"host" validate:"required_if=Driver postgres"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user" validate:"required_if=Driver postgres"`
	Password        string `mapstructure:"password"`
	Name            string `mapstructure:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `mapstructure:"ssl_mode"`
	Path            string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 秒
	LogQueries      bool   `mapstructure:"log_queries"`
}

type AuthConfig struct {
	SecretKey                string `mapstructure:"secret_key" validate:"required"`
	AccessTokenExpireMinutes int    `mapstructure:"access_token_expire_minutes" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_allowed_origins", []string{"http://127.0.0.1:5173"})
	v.SetDefault("server.frontend_dir", "frontend/dist")
	v.SetDefault("server.ssl", false)

	v.SetDefault("db.driver", "sqlite")
	v.SetDefault("db.host", "")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.name", "")
	v.SetDefault("db.ssl_mode", "disable")
	v.SetDefault("db.path", "qna.db")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 300)
	v.SetDefault("db.log_queries", false)

	// secret_key 沒有預設值，但需要註冊 key 才能被環境變數覆蓋
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.access_token_expire_minutes", 60*24)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)
}

// Load 讀取設定
// 順序：預設值 → path 下的 config.yaml（可選）→ .env 與 QNA_ 開頭的環境變數
func Load(path string) (*Config, error) {
	// .env 不存在時忽略
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := validator.New().Struct(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
