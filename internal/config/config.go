// Package config resolves settings from defaults, a YAML file, GITHUB_XP_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/naka-gawa/github-xp/internal/domain"
	"github.com/naka-gawa/github-xp/internal/render"
	"github.com/naka-gawa/github-xp/internal/usecase"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the settings file looked up in the working and home directories.
const FileName = ".github-xp"

// EnvPrefix prefixes every environment variable that overrides a setting.
const EnvPrefix = "GITHUB_XP"

// Defaults.
const (
	DefaultBucketSize = 100
	DefaultBaseXP     = 100
	DefaultMultiplier = 1.5
)

// Settings is the resolved, user-tunable configuration.
type Settings struct {
	Mode        string             `mapstructure:"mode" yaml:"mode"`
	Policy      string             `mapstructure:"policy" yaml:"policy"`
	BucketSize  float64            `mapstructure:"bucket_size" yaml:"bucket_size"`
	BaseXP      float64            `mapstructure:"base_xp" yaml:"base_xp"`
	Multiplier  float64            `mapstructure:"multiplier" yaml:"multiplier"`
	Weights     map[string]float64 `mapstructure:"weights" yaml:"weights"`
	RecentRepos int                `mapstructure:"recent_repos" yaml:"recent_repos"`
	BarWidth    int                `mapstructure:"bar_width" yaml:"bar_width"`
	// Timeout bounds a whole run; zero means no limit.
	Timeout      time.Duration        `mapstructure:"timeout" yaml:"timeout"`
	Achievements []domain.Achievement `mapstructure:"achievements" yaml:"achievements,omitempty"`
	Milestones   []domain.Milestone   `mapstructure:"milestones" yaml:"milestones,omitempty"`
}

// New returns a viper instance carrying the defaults and the environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("mode", usecase.ModeREST)
	v.SetDefault("policy", domain.PolicyBucket)
	v.SetDefault("bucket_size", DefaultBucketSize)
	v.SetDefault("base_xp", DefaultBaseXP)
	v.SetDefault("multiplier", DefaultMultiplier)
	v.SetDefault("recent_repos", usecase.DefaultRecentRepos)
	v.SetDefault("bar_width", render.DefaultBarWidth)
	v.SetDefault("timeout", time.Duration(0))
	// One key per stat so that a file or GITHUB_XP_WEIGHTS_<STAT> can override a single weight.
	for stat, w := range domain.DefaultWeights() {
		v.SetDefault("weights."+string(stat), w)
	}
	return v
}

// Load reads configFile (or the first .github-xp.yaml found) into v and decodes the result.
// A missing default settings file is not an error; a missing explicit one is.
func Load(v *viper.Viper, configFile string) (*Settings, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: error reading config file: %v", domain.ErrConfiguration, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("%w: unable to unmarshal config: %v", domain.ErrConfiguration, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Default returns the settings used when nothing is configured.
func Default() *Settings {
	weights := map[string]float64{}
	for stat, w := range domain.DefaultWeights() {
		weights[string(stat)] = w
	}
	return &Settings{
		Mode:         usecase.ModeREST,
		Policy:       domain.PolicyBucket,
		BucketSize:   DefaultBucketSize,
		BaseXP:       DefaultBaseXP,
		Multiplier:   DefaultMultiplier,
		Weights:      weights,
		RecentRepos:  usecase.DefaultRecentRepos,
		BarWidth:     render.DefaultBarWidth,
		Achievements: domain.DefaultAchievements(),
	}
}

// Validate checks the settings that are not validated by the domain constructors.
func (s *Settings) Validate() error {
	switch s.Mode {
	case usecase.ModeREST, usecase.ModeGraphQL:
	default:
		return fmt.Errorf("%w: unknown mode %q (want %s or %s)", domain.ErrConfiguration, s.Mode, usecase.ModeREST, usecase.ModeGraphQL)
	}
	if s.RecentRepos < 1 {
		return fmt.Errorf("%w: recent_repos must be at least 1, got %d", domain.ErrConfiguration, s.RecentRepos)
	}
	if s.BarWidth < 1 {
		return fmt.Errorf("%w: bar_width must be at least 1, got %d", domain.ErrConfiguration, s.BarWidth)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("%w: timeout must not be negative, got %s", domain.ErrConfiguration, s.Timeout)
	}
	for _, m := range s.Milestones {
		if _, err := m.Time(); err != nil {
			return err
		}
	}
	return nil
}

// XPWeights converts the configured weights into domain weights and validates them.
func (s *Settings) XPWeights() (domain.Weights, error) {
	weights := make(domain.Weights, len(s.Weights))
	for name, w := range s.Weights {
		weights[domain.Stat(strings.ToLower(name))] = w
	}
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return weights, nil
}

// Leveling builds the XP configuration for report building.
func (s *Settings) Leveling() (usecase.Leveling, error) {
	weights, err := s.XPWeights()
	if err != nil {
		return usecase.Leveling{}, err
	}
	policy, err := domain.NewPolicy(s.Policy, s.BucketSize, s.BaseXP, s.Multiplier)
	if err != nil {
		return usecase.Leveling{}, err
	}
	achievements := s.Achievements
	if len(achievements) == 0 {
		achievements = domain.DefaultAchievements()
	}
	return usecase.Leveling{Weights: weights, Policy: policy, Achievements: achievements}, nil
}

// WriteYAML writes s as a settings file.
func (s *Settings) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	return enc.Close()
}
