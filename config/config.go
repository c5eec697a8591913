// Package config loads pipeline configuration from an optional YAML file with
// environment-variable overrides on top of built-in defaults. Only the
// analysis API key has no default; everything else works out of the box.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zombar/blogaudit/analysis"
)

const (
	configPathEnv = "BLOGAUDIT_CONFIG"
	apiKeyEnv     = "ANTHROPIC_API_KEY"
	baseURLEnv    = "ANTHROPIC_BASE_URL"
	modelEnv      = "ANTHROPIC_MODEL"
	databaseEnv   = "DATABASE_DSN"
	s3BucketEnv   = "S3_BUCKET"
	s3RegionEnv   = "S3_REGION"
	s3EndpointEnv = "S3_ENDPOINT"
	s3KeyIDEnv    = "S3_ACCESS_KEY_ID"
	s3SecretEnv   = "S3_SECRET_ACCESS_KEY"
)

// Config holds all pipeline settings.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis"`
	Paths    PathsConfig    `yaml:"paths"`
	Batch    BatchConfig    `yaml:"batch"`
	Database DatabaseConfig `yaml:"database"`
	S3       S3Config       `yaml:"s3"`
	Metrics  MetricsConfig  `yaml:"metrics"`
	Scrape   ScrapeConfig   `yaml:"scrape"`
}

// AnalysisConfig defines how to contact the analysis service and how to
// price its token usage.
type AnalysisConfig struct {
	BaseURL        string            `yaml:"baseUrl"`
	Model          string            `yaml:"model"`
	APIKey         string            `yaml:"apiKey"`
	TimeoutSeconds int               `yaml:"timeoutSeconds"`
	MaxRetries     int               `yaml:"maxRetries"`
	InputRate      string            `yaml:"inputRate"`  // dollars per million input tokens
	OutputRate     string            `yaml:"outputRate"` // dollars per million output tokens
	Categories     []string          `yaml:"categories"`
	UseCases       map[string]string `yaml:"useCases"`
}

// PathsConfig names the pipeline's input and output files.
type PathsConfig struct {
	InputFile       string `yaml:"inputFile"`       // scraped articles JSON
	StoreFile       string `yaml:"storeFile"`       // merged-results checkpoint
	ReportFile      string `yaml:"reportFile"`      // spreadsheet report
	KeywordFile     string `yaml:"keywordFile"`     // optional URL -> target keyword workbook
	PerformanceFile string `yaml:"performanceFile"` // optional slug -> metrics workbook
	ArtifactDir     string `yaml:"artifactDir"`     // local artifact archive
}

// BatchConfig bounds one batch run.
type BatchConfig struct {
	StartIndex int `yaml:"startIndex"`
	BatchSize  int `yaml:"batchSize"` // 0 means all remaining articles
}

// DatabaseConfig describes the optional Postgres archive.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // empty disables the archive
}

// S3Config describes optional artifact upload to object storage.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"` // empty disables upload
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

// MetricsConfig controls the optional metrics/health listener.
type MetricsConfig struct {
	ListenAddr string `yaml:"listenAddr"` // empty disables the listener
}

// ScrapeConfig controls page fetching.
type ScrapeConfig struct {
	UserAgent      string `yaml:"userAgent"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// AnalysisClientConfig converts the analysis section to the client's config.
func (c Config) AnalysisClientConfig() analysis.Config {
	cfg := analysis.DefaultConfig()
	if c.Analysis.BaseURL != "" {
		cfg.BaseURL = c.Analysis.BaseURL
	}
	if c.Analysis.Model != "" {
		cfg.Model = c.Analysis.Model
	}
	cfg.APIKey = c.Analysis.APIKey
	if c.Analysis.TimeoutSeconds > 0 {
		cfg.HTTPTimeout = time.Duration(c.Analysis.TimeoutSeconds) * time.Second
	}
	if c.Analysis.MaxRetries > 0 {
		cfg.MaxRetries = c.Analysis.MaxRetries
	}
	cfg.Categories = c.Analysis.Categories
	cfg.UseCases = c.Analysis.UseCases
	return cfg
}

// Validate checks that required settings are present. A missing API key is
// the only startup-fatal condition in the pipeline.
func (c Config) Validate() error {
	if c.Analysis.APIKey == "" {
		return fmt.Errorf("%s not found in environment or config", apiKeyEnv)
	}
	return nil
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Analysis.APIKey = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.Analysis.BaseURL = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.Analysis.Model = v
	}
	if v := os.Getenv(databaseEnv); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv(s3BucketEnv); v != "" {
		c.S3.Bucket = v
	}
	if v := os.Getenv(s3RegionEnv); v != "" {
		c.S3.Region = v
	}
	if v := os.Getenv(s3EndpointEnv); v != "" {
		c.S3.Endpoint = v
	}
	if v := os.Getenv(s3KeyIDEnv); v != "" {
		c.S3.AccessKeyID = v
	}
	if v := os.Getenv(s3SecretEnv); v != "" {
		c.S3.SecretAccessKey = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Analysis.BaseURL != "" {
		base.Analysis.BaseURL = override.Analysis.BaseURL
	}
	if override.Analysis.Model != "" {
		base.Analysis.Model = override.Analysis.Model
	}
	if override.Analysis.APIKey != "" {
		base.Analysis.APIKey = override.Analysis.APIKey
	}
	if override.Analysis.TimeoutSeconds > 0 {
		base.Analysis.TimeoutSeconds = override.Analysis.TimeoutSeconds
	}
	if override.Analysis.MaxRetries > 0 {
		base.Analysis.MaxRetries = override.Analysis.MaxRetries
	}
	if override.Analysis.InputRate != "" {
		base.Analysis.InputRate = override.Analysis.InputRate
	}
	if override.Analysis.OutputRate != "" {
		base.Analysis.OutputRate = override.Analysis.OutputRate
	}
	if len(override.Analysis.Categories) > 0 {
		base.Analysis.Categories = override.Analysis.Categories
	}
	if len(override.Analysis.UseCases) > 0 {
		base.Analysis.UseCases = override.Analysis.UseCases
	}

	if override.Paths.InputFile != "" {
		base.Paths.InputFile = override.Paths.InputFile
	}
	if override.Paths.StoreFile != "" {
		base.Paths.StoreFile = override.Paths.StoreFile
	}
	if override.Paths.ReportFile != "" {
		base.Paths.ReportFile = override.Paths.ReportFile
	}
	if override.Paths.KeywordFile != "" {
		base.Paths.KeywordFile = override.Paths.KeywordFile
	}
	if override.Paths.PerformanceFile != "" {
		base.Paths.PerformanceFile = override.Paths.PerformanceFile
	}
	if override.Paths.ArtifactDir != "" {
		base.Paths.ArtifactDir = override.Paths.ArtifactDir
	}

	if override.Batch.StartIndex > 0 {
		base.Batch.StartIndex = override.Batch.StartIndex
	}
	if override.Batch.BatchSize > 0 {
		base.Batch.BatchSize = override.Batch.BatchSize
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.S3.Bucket != "" {
		base.S3 = override.S3
	}

	if override.Metrics.ListenAddr != "" {
		base.Metrics.ListenAddr = override.Metrics.ListenAddr
	}

	if override.Scrape.UserAgent != "" {
		base.Scrape.UserAgent = override.Scrape.UserAgent
	}
	if override.Scrape.TimeoutSeconds > 0 {
		base.Scrape.TimeoutSeconds = override.Scrape.TimeoutSeconds
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Analysis: AnalysisConfig{
			BaseURL:        analysis.DefaultBaseURL,
			Model:          analysis.DefaultModel,
			TimeoutSeconds: 60,
			MaxRetries:     2,
			InputRate:      "3.00",
			OutputRate:     "15.00",
			Categories:     defaultCategories(),
			UseCases:       defaultUseCases(),
		},
		Paths: PathsConfig{
			InputFile:   "scraped_articles.json",
			StoreFile:   "merged_results.json",
			ReportFile:  "content_audit.xlsx",
			ArtifactDir: "./artifacts",
		},
		Scrape: ScrapeConfig{
			UserAgent:      "blogaudit/1.0",
			TimeoutSeconds: 30,
		},
	}
}

func defaultCategories() []string {
	return []string{
		"Marketing Automation",
		"Automation Technology & Strategy",
		"Email Marketing",
		"Email Deliverability",
		"Customer Marketing",
		"Customer Journey",
		"AI and Marketing",
		"Marketing Strategy",
		"Corporate",
		"Uncategorized",
	}
}

func defaultUseCases() map[string]string {
	return map[string]string{
		"Identify and Target Audience Segments": "Capturing email addresses, first-party data collection, progressive profiling, and landing page optimization",
		"Reach New Prospects":                   "Behavioral insights, firmographic data, and customer lifecycle segmentation",
		"Personalize Outreach":                  "Automated programs, targeted emails based on behavior, dynamic segmentation, and CRM integration",
		"Nurture Prospects":                     "Targeted email programs, thought leadership, and sales funnel progression",
		"Deliver Best Leads to Sales":           "Lead scoring, sales-marketing alignment, and lead quality optimization",
		"Empower Sales Intelligence":            "ABM insights, behavioral data capture, and sales workflow automation",
		"Scale Operations":                      "CRM integrations, prospect targeting, and automated marketing workflows",
		"Welcome and Onboard":                   "Automated tasks, behavioral engagement data, and omnichannel marketing programs",
		"Drive Product Adoption":                "Automated welcome series, customer onboarding, and direct mail integration",
		"Regular Communication":                 "Transactional emails, brand consistency, email performance, and compliance",
		"Automate Renewal":                      "Social media automation, customer re-engagement, and milestone-based communications",
		"Grow Advocates":                        "Automated feedback collection, community building, and customer education",
		"Automate Communications":               "Internal workflows, partner communications, and automated messaging",
		"Cross-sell and Upsell":                 "Targeted offers, behavioral insights, loyalty programs, and customer value expansion",
		"Marketing Performance":                 "ROI optimization and marketing effectiveness",
		"Data-Driven Marketing":                 "Automation tools, unified customer views, and personalized strategies",
		"Scale Marketing Output":                "Multi-channel campaign coordination, lead nurturing, and conversion tracking",
		"Single Source of Truth":                "Centralized databases, CRM synchronization, and lead scoring systems",
		"Marketing/Sales Insights":              "Integrated reporting and performance analytics",
		"No Clear Match":                        "Content that doesn't fit any specific use case",
	}
}
