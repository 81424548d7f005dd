package config

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
)

type Config struct {
	App         App           `yaml:"app"`
	DBDriver    string        `yaml:"db_driver"`
	DB          *sql.DB       `yaml:"db"`
	SQLitePath  string        `yaml:"sqlite_path"`
	Queue       *RabbitMQ     `yaml:"rabbitmq"`
	Storage     *minio.Client `yaml:"storage"`
	MinIOBucket string        `yaml:"minio_bucket"`
	Server      Server        `yaml:"server"`
	Pipeline    Pipeline      `yaml:"pipeline"`
	Diarizer    Diarizer      `yaml:"diarizer"`
	Transcriber Transcriber   `yaml:"transcriber"`
}

type App struct {
	Environment string `yaml:"environment"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type Pipeline struct {
	// StorageRoot is the directory that holds one folder per project.
	StorageRoot string `yaml:"storage_root"`
	// SegmentLengthMs is the fixed split length for raw segments.
	SegmentLengthMs int `yaml:"segment_length_ms"`
	// MinIntervalSeconds drops diarized speech intervals shorter than this.
	MinIntervalSeconds float64 `yaml:"min_interval_seconds"`
	// DistanceThreshold cuts the clustering dendrogram.
	DistanceThreshold float64 `yaml:"distance_threshold"`
}

type Diarizer struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

type Transcriber struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

func Load(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetDefault("db_driver", "sqlite")
	viper.SetDefault("sqlite_path", "voicetrack.db")
	viper.SetDefault("pipeline.segment_length_ms", 300000)
	viper.SetDefault("pipeline.min_interval_seconds", 1.0)
	viper.SetDefault("pipeline.distance_threshold", 1.0)
	viper.SetDefault("transcriber.model", "base")
	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: App{
			Environment: viper.GetString("app.environment"),
		},
		DBDriver:   viper.GetString("db_driver"),
		SQLitePath: viper.GetString("sqlite_path"),
		Server: Server{
			HttpPort: viper.GetString("server.port"),
			Workers:  viper.GetInt("server.workers"),
		},
		Pipeline: Pipeline{
			StorageRoot:        viper.GetString("pipeline.storage_root"),
			SegmentLengthMs:    viper.GetInt("pipeline.segment_length_ms"),
			MinIntervalSeconds: viper.GetFloat64("pipeline.min_interval_seconds"),
			DistanceThreshold:  viper.GetFloat64("pipeline.distance_threshold"),
		},
		Diarizer: Diarizer{
			BaseURL: viper.GetString("diarizer.base_url"),
			Token:   viper.GetString("diarizer.token"),
		},
		Transcriber: Transcriber{
			BaseURL: viper.GetString("transcriber.base_url"),
			Model:   viper.GetString("transcriber.model"),
		},
	}

	if cfg.DBDriver == "postgres" {
		db, err := sql.Open("postgres", viper.GetString("postgresql_host"))
		if err != nil {
			return nil, err
		}
		cfg.DB = db
	}

	if viper.IsSet("rabbitmq_host") {
		cfg.Queue = &RabbitMQ{
			Host: viper.GetString("rabbitmq_host"),
			Port: viper.GetInt("rabbitmq_port"),
			User: viper.GetString("rabbitmq_user"),
			Pass: viper.GetString("rabbitmq_pass"),
			Kind: viper.GetString("rabbitmq_kind"),
		}
	}

	// Object storage is optional: when configured, materialized final
	// segments are archived to the bucket after export.
	if viper.IsSet("minio.url") {
		minioClient, err := minio.New(viper.GetString("minio.url"), &minio.Options{
			Creds:  credentials.NewStaticV4(viper.GetString("minio.access_id"), viper.GetString("minio.secret_access_key"), ""),
			Secure: false,
		})
		if err != nil {
			return nil, err
		}
		cfg.Storage = minioClient
		cfg.MinIOBucket = viper.GetString("minio.bucket")
	}

	return cfg, nil
}
