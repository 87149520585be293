// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Session  SessionConfig  `mapstructure:"session"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig 存储 Postgres 数据库的配置。
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig 存储 JWT 相关的配置。
type JWTConfig struct {
	Secret                 string `mapstructure:"secret"`
	AccessTokenExpireHours int    `mapstructure:"access_token_expire_hours"`
	RefreshTokenExpireDays int    `mapstructure:"refresh_token_expire_days"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ChatConfig 存储 AI 倾听者（聊天代理）相关的配置。
// APIKey 与 UseMock 由环境变量注入：OPENROUTER_API_KEY / USE_MOCK_CHAT。
type ChatConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	UseMock        bool    `mapstructure:"use_mock"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	MockDelayMs    int     `mapstructure:"mock_delay_ms"`
}

// SessionConfig 存储会话历史存储相关的配置。
type SessionConfig struct {
	// MaxSessions 是每个用户最多保留的会话条数，超出后最旧的会话被静默淘汰。
	MaxSessions int `mapstructure:"max_sessions"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
// 两个对外约定的环境变量优先于配置文件生效。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	// 部署约定：密钥存在即启用真实供应商，USE_MOCK_CHAT=true 强制走 mock 路径。
	_ = viper.BindEnv("chat.api_key", "OPENROUTER_API_KEY")
	_ = viper.BindEnv("chat.use_mock", "USE_MOCK_CHAT")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
