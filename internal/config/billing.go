package config

import (
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// BillingSettings are the operator-tunable invoicing defaults. They live in a
// mounted config file so a running instance picks up edits without a restart.
type BillingSettings struct {
	Currency            string `mapstructure:"currency"`
	InvoiceNumberPrefix string `mapstructure:"invoiceNumberPrefix"`
	PaymentTermsDays    int    `mapstructure:"paymentTermsDays"`
	ReportCacheTTLMin   int    `mapstructure:"reportCacheTtlMinutes"`
}

func DefaultBillingSettings() BillingSettings {
	return BillingSettings{
		Currency:            "INR",
		InvoiceNumberPrefix: "INV",
		PaymentTermsDays:    14,
		ReportCacheTTLMin:   15,
	}
}

// BillingSettingsHolder exposes the current settings snapshot and swaps it
// atomically on file change.
type BillingSettingsHolder struct {
	current atomic.Value // holds BillingSettings
}

func NewBillingSettingsHolder(log *zap.Logger) (*BillingSettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/fixbench/config")
	v.AddConfigPath("/etc/fixbench")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FIXBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultBillingSettings()
	v.SetDefault("billing.currency", defaults.Currency)
	v.SetDefault("billing.invoiceNumberPrefix", defaults.InvoiceNumberPrefix)
	v.SetDefault("billing.paymentTermsDays", defaults.PaymentTermsDays)
	v.SetDefault("billing.reportCacheTtlMinutes", defaults.ReportCacheTTLMin)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	holder := &BillingSettingsHolder{}
	holder.store(v, defaults, log)

	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("billing settings reloaded", zap.String("file", e.Name))
		holder.store(v, defaults, log)
	})
	v.WatchConfig()

	return holder, nil
}

func (h *BillingSettingsHolder) store(v *viper.Viper, fallback BillingSettings, log *zap.Logger) {
	var settings BillingSettings
	if err := v.UnmarshalKey("billing", &settings); err != nil {
		log.Warn("invalid billing settings, keeping defaults", zap.Error(err))
		settings = fallback
	}
	if strings.TrimSpace(settings.Currency) == "" {
		settings.Currency = fallback.Currency
	}
	if strings.TrimSpace(settings.InvoiceNumberPrefix) == "" {
		settings.InvoiceNumberPrefix = fallback.InvoiceNumberPrefix
	}
	if settings.PaymentTermsDays <= 0 {
		settings.PaymentTermsDays = fallback.PaymentTermsDays
	}
	if settings.ReportCacheTTLMin <= 0 {
		settings.ReportCacheTTLMin = fallback.ReportCacheTTLMin
	}
	h.current.Store(settings)
}

// Current returns the active settings snapshot.
func (h *BillingSettingsHolder) Current() BillingSettings {
	if h == nil {
		return DefaultBillingSettings()
	}
	if settings, ok := h.current.Load().(BillingSettings); ok {
		return settings
	}
	return DefaultBillingSettings()
}
