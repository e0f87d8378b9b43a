package internal

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	CacheDriverBadger = "badger"
	CacheDriverSQLite = "sqlite"
)

type Config struct {
	APIBaseURL   string `env:"CLASS_API_BASE_URL,required=true" validate:"required,url"`
	SessionToken string `env:"CLASS_SESSION_TOKEN"`

	SectionID       string `env:"SECTION_ID,required=true" validate:"required"`
	SectionTeacher  string `env:"SECTION_TEACHER"`
	SectionRoom     string `env:"SECTION_ROOM"`
	SectionPhotoURL string `env:"SECTION_PHOTO_URL" validate:"omitempty,url"`

	RequestTimeout       time.Duration `env:"REQUEST_TIMEOUT,default=30s" validate:"gt=0"`
	CategoryFetchTimeout time.Duration `env:"CATEGORY_FETCH_TIMEOUT,default=15s" validate:"gte=0"`
	DownloadsPerMinute   int           `env:"DOWNLOADS_PER_MINUTE,default=30" validate:"gte=0"`

	CacheDriver    string `env:"CACHE_DRIVER,default=badger" validate:"oneof=badger sqlite"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger" validate:"required_if=CacheDriver badger"`
	SQLiteFilepath string `env:"SQLITE_FILEPATH,default=./data/cache.db" validate:"required_if=CacheDriver sqlite"`

	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR"`
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
