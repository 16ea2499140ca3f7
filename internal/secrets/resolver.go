// Package secrets resolves database connection credentials, either from
// statically configured values or from a secret-store reference.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"

	"github.com/your-org/facepipe/internal/config"
)

// Credentials is the resolved set of database connection parameters.
type Credentials struct {
	Host     string
	Port     int
	Username string
	Password string
	DBName   string
	Engine   string
}

// DSN renders the credentials as a Postgres connection string.
func (c Credentials) DSN() string {
	port := c.Port
	if port == 0 {
		port = 5432
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Username, c.Password, c.Host, port, c.DBName)
}

// Resolver produces database credentials for one invocation.
type Resolver interface {
	Resolve(ctx context.Context) (Credentials, error)
}

// StaticResolver returns credentials taken verbatim from configuration.
type StaticResolver struct {
	creds Credentials
}

func NewStaticResolver(cfg config.DatabaseConfig) *StaticResolver {
	return &StaticResolver{creds: Credentials{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Username: cfg.User,
		Password: cfg.Password,
		DBName:   cfg.Name,
	}}
}

func (r *StaticResolver) Resolve(ctx context.Context) (Credentials, error) {
	return r.creds, nil
}

// SecretsManagerAPI is the subset of the Secrets Manager client used here.
type SecretsManagerAPI interface {
	GetSecretValue(ctx context.Context, in *secretsmanager.GetSecretValueInput,
		opts ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// SecretsManagerResolver fetches credentials from a secret whose string value
// is JSON of the form {host, port, username, password, dbname|dbName, engine}.
type SecretsManagerResolver struct {
	client    SecretsManagerAPI
	secretARN string
}

func NewSecretsManagerResolver(client SecretsManagerAPI, secretARN string) *SecretsManagerResolver {
	return &SecretsManagerResolver{client: client, secretARN: secretARN}
}

type secretDocument struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	DBName    string `json:"dbname"`
	DBNameAlt string `json:"dbName"`
	Engine    string `json:"engine"`
}

func (r *SecretsManagerResolver) Resolve(ctx context.Context) (Credentials, error) {
	out, err := r.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(r.secretARN),
	})
	if err != nil {
		return Credentials{}, fmt.Errorf("get secret value: %w", err)
	}
	if out.SecretString == nil {
		return Credentials{}, fmt.Errorf("secret %s has no string value", r.secretARN)
	}

	var doc secretDocument
	if err := json.Unmarshal([]byte(*out.SecretString), &doc); err != nil {
		return Credentials{}, fmt.Errorf("parse secret json: %w", err)
	}

	dbName := doc.DBName
	if dbName == "" {
		dbName = doc.DBNameAlt
	}
	if dbName == "" {
		dbName = "postgres"
	}

	return Credentials{
		Host:     doc.Host,
		Port:     doc.Port,
		Username: doc.Username,
		Password: doc.Password,
		DBName:   dbName,
		Engine:   doc.Engine,
	}, nil
}
