package config

import (
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Log       Log       `yaml:"log"`
	Server    Server    `yaml:"server"`
	OpenAI    OpenAI    `yaml:"openai"`
	Mail      Mail      `yaml:"mail"`
	Booking   Booking   `yaml:"booking"`
	Directory Directory `yaml:"directory"`
}

type Server struct {
	// Address for the HTTP API to listen on
	Addr string `yaml:"addr" example:":8080"`
}

type OpenAI struct {
	// OpenAI-compatible base url
	BaseURL string `yaml:"base_url" example:"https://openrouter.ai/api/v1" validate:"required"`
	// OpenAI token
	Token string `yaml:"token" example:"sk-proj-abc123456789DEF789ghi012JKL345mno678PQR901stu234VWX" validate:"required"`
	// Model name
	Model string `yaml:"model" example:"deepseek/deepseek-chat-v3-0324:free" validate:"required"`
	// Sampling parameters for reply generation
	Sampling Sampling `yaml:"sampling"`
}

type Sampling struct {
	Temperature  float64 `yaml:"temperature" example:"0.7"`
	TopP         float64 `yaml:"top_p" example:"0.9"`
	TopK         int     `yaml:"top_k" example:"50"`
	MaxNewTokens int     `yaml:"max_new_tokens" example:"100"`
}

type Mail struct {
	// SMTP host
	Host string `yaml:"host" example:"smtp.gmail.com"`
	// SMTP port
	Port int `yaml:"port" example:"587"`
	// SMTP username
	Username string `yaml:"username" example:"support@example.com"`
	// SMTP password or app token
	Password string `yaml:"password"`
	// From address on confirmation emails
	From string `yaml:"from" example:"support@example.com"`
	// Disable outgoing email, log confirmations instead
	Disabled bool `yaml:"disabled" example:"false"`
}

type Booking struct {
	// Path of the append-only booking ledger
	LedgerPath string `yaml:"ledger_path" example:"data/bookings.jsonl"`
}

type Directory struct {
	// Optional YAML file overriding the built-in specialist list
	SpecialistsFile string `yaml:"specialists_file" example:"data/specialists.yaml"`
}

type Log struct {
	// Telegram logging config
	Telegram TelegramLog `yaml:"telegram"`
}

type TelegramLog struct {
	// Chat bot token, obtain it via BotFather
	Token string `yaml:"token" example:"1234567890:ABCdefGHIjklMNopQRstUVwxyZ-123456789"`
	// Chat ID to send messages to
	ChatID string `yaml:"chat_id" example:"1001234567890"`
}

func Load() (*Config, error) {
	var result Config

	data, err := os.ReadFile("config.yaml")
	if err != nil {
		return nil, oops.Errorf("failed to read config file: %w", err)
	}

	if err = yaml.Unmarshal(data, &result); err != nil {
		return nil, oops.Errorf("failed to parse YAML config: %w", err)
	}

	if result.Server.Addr == "" {
		result.Server.Addr = ":8080"
	}
	if result.Booking.LedgerPath == "" {
		result.Booking.LedgerPath = "data/bookings.jsonl"
	}
	if result.Mail.Port == 0 {
		result.Mail.Port = 587
	}
	if result.OpenAI.Sampling.Temperature == 0 {
		result.OpenAI.Sampling.Temperature = 0.7
	}
	if result.OpenAI.Sampling.TopP == 0 {
		result.OpenAI.Sampling.TopP = 0.9
	}
	if result.OpenAI.Sampling.TopK == 0 {
		result.OpenAI.Sampling.TopK = 50
	}
	if result.OpenAI.Sampling.MaxNewTokens == 0 {
		result.OpenAI.Sampling.MaxNewTokens = 100
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(result); err != nil {
		return nil, oops.Errorf("failed to validate config: %w", err)
	}

	return &result, nil
}
