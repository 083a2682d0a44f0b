package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/roomvista/decor-services/visualizer/pkg/blobstore"
	"github.com/roomvista/decor-services/visualizer/pkg/imagejob"
	"github.com/roomvista/decor-services/visualizer/pkg/mq"
	"github.com/roomvista/decor-services/visualizer/pkg/mysql"
	"github.com/roomvista/decor-services/visualizer/pkg/paymentgw"
)

type Config struct {
	API       API              `mapstructure:"api"`
	Database  mysql.Config     `mapstructure:"database"`
	RabbitMQ  mq.Config        `mapstructure:"rabbitmq"`
	Provider  imagejob.Config  `mapstructure:"provider"`
	Payment   paymentgw.Config `mapstructure:"payment"`
	BlobStore blobstore.Config `mapstructure:"blobstore"`
	Auth      Auth             `mapstructure:"auth"`
	Reconcile Reconcile        `mapstructure:"reconcile"`
}

type API struct {
	Port string `mapstructure:"port"`
}

type Auth struct {
	JWTSecret            string `mapstructure:"jwt_secret"`
	ProviderWebhookToken string `mapstructure:"provider_webhook_token"`
}

type Reconcile struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	MaxAttempts  int           `mapstructure:"max_attempts"`
	StaleAfter   time.Duration `mapstructure:"stale_after"`
	RequeueAfter time.Duration `mapstructure:"requeue_after"`
	BatchSize    int           `mapstructure:"batch_size"`
}

func Load() (cfg *Config, err error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AddConfigPath("./config")

	err = viper.ReadInConfig()
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	err = viper.Unmarshal(&cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}
