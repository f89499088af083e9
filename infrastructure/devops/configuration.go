package devops

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

type DBEntry struct {
	Name     string `yaml:"name"`
	Host     string `yaml:"host"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// DSN renders the entry for the mysql or postgres gorm driver.
func (db DBEntry) DSN(driver string) (string, error) {
	name := db.Database
	if name == "" {
		name = db.Name
	}

	switch driver {
	case "mysql":
		host := db.Host
		if !strings.Contains(host, ":") {
			host += ":3306"
		}
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC", db.Username, db.Password, host, name), nil
	case "postgres":
		host, port := db.Host, "5432"
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host, port = host[:i], host[i+1:]
		}
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=require TimeZone=UTC", host, port, db.Username, db.Password, name), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// ParseDBConfig decodes the yaml list stored in the parameter.
func ParseDBConfig(value string) ([]DBEntry, error) {
	var parsed []DBEntry
	if err := yaml.Unmarshal([]byte(value), &parsed); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}
	return parsed, nil
}

func LoadDBConfig(ctx context.Context, paramName string) ([]DBEntry, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := ssm.NewFromConfig(cfg)

	out, err := client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get parameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return nil, fmt.Errorf("parameter %s is empty", paramName)
	}

	return ParseDBConfig(*out.Parameter.Value)
}

// ResolveDSN picks the entry named name (case-insensitive), or the only entry
// when the list has exactly one.
func ResolveDSN(entries []DBEntry, name, driver string) (string, error) {
	if len(entries) == 1 && name == "" {
		return entries[0].DSN(driver)
	}
	for _, entry := range entries {
		if strings.EqualFold(entry.Name, name) {
			return entry.DSN(driver)
		}
	}
	return "", fmt.Errorf("no database entry named %q", name)
}
