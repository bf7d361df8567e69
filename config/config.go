package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server   Server
	Database Database
	Chain    Chain
	Storage  Storage
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Chain holds the ledger network configuration. It is built once at startup
// and injected read-only; nothing reads chain settings from the environment
// after this point.
type Chain struct {
	NodeURL         string
	Network         string
	RegistryAddress string
	IssuerAddress   string
	// SignerKey is the funded signer's private key. When empty the ledger
	// client runs in simulation mode and never contacts the network.
	SignerKey     string
	SignerAddress string
}

type Storage struct {
	ProjectURL string
	ServiceKey string
	Bucket     string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Chain.NodeURL = viper.GetString("CHAIN_NODE_URL")
	config.Chain.Network = viper.GetString("CHAIN_NETWORK")
	config.Chain.RegistryAddress = viper.GetString("CHAIN_REGISTRY_ADDRESS")
	config.Chain.IssuerAddress = viper.GetString("CHAIN_ISSUER_ADDRESS")
	config.Chain.SignerKey = viper.GetString("CHAIN_SIGNER_KEY")
	config.Chain.SignerAddress = viper.GetString("CHAIN_SIGNER_ADDRESS")

	config.Storage.ProjectURL = viper.GetString("SUPABASE_URL")
	config.Storage.ServiceKey = viper.GetString("SUPABASE_KEY")
	config.Storage.Bucket = viper.GetString("SUPABASE_BUCKET")

	if config.Server.Port == "" {
		config.Server.Port = "8080"
	}
	if config.Chain.Network == "" {
		config.Chain.Network = "testnet"
	}

	log.Info().Str("network", config.Chain.Network).Bool("signer_configured", config.Chain.SignerKey != "").Msg("Config loaded")
	return &config, nil
}
