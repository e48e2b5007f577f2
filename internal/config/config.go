package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/aromalab/retailgen/internal/simulator"
)

// Config holds all configuration for the dataset generator
type Config struct {
	// Database configuration (import phase)
	Database DatabaseConfig `mapstructure:"database"`

	// Dataset generation configuration
	Generate GenerateConfig `mapstructure:"generate"`

	// Purchase journey parameters
	Sales SalesConfig `mapstructure:"sales"`

	// Logging
	Verbose bool `mapstructure:"verbose"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	// Connection string (DSN)
	// Format: user:password@tcp(host:port)/database
	DSN string `mapstructure:"dsn"`

	// Driver (mysql)
	Driver string `mapstructure:"driver"`

	// Connection pool settings
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// GenerateConfig holds dataset shape and output settings
type GenerateConfig struct {
	// Random seed for reproducibility (0 = random)
	Seed int64 `mapstructure:"seed"`

	// Output directory for generated files
	OutputDir string `mapstructure:"output_dir"`

	// Volume settings
	NumCustomers   int  `mapstructure:"num_customers"`
	TotalProducts  int  `mapstructure:"total_products"`
	NumDevices     int  `mapstructure:"num_devices"`
	NumAccessories int  `mapstructure:"num_accessories"`
	NumSpareParts  int  `mapstructure:"num_spare_parts"`
	BulkRefills    bool `mapstructure:"bulk_refills"`
	NumStores      int  `mapstructure:"num_stores"`

	// Timeline (ISO dates)
	CreatedAtStart string `mapstructure:"created_at_start"`
	CreatedAtEnd   string `mapstructure:"created_at_end"`
	Horizon        string `mapstructure:"horizon"`

	// Customer field presence probabilities
	PFirstName float64 `mapstructure:"p_first_name"`
	PLastName  float64 `mapstructure:"p_last_name"`
	PEmail     float64 `mapstructure:"p_email"`
	PPhone     float64 `mapstructure:"p_phone"`

	// Opt-in probabilities conditioned on channel presence
	PEmailOptInIfEmailPresent float64 `mapstructure:"p_email_opt_in_if_email_present"`
	PEmailOptInIfEmailMissing float64 `mapstructure:"p_email_opt_in_if_email_missing"`
	PSMSOptInIfPhonePresent   float64 `mapstructure:"p_sms_opt_in_if_phone_present"`
	PSMSOptInIfPhoneMissing   float64 `mapstructure:"p_sms_opt_in_if_phone_missing"`
	PCallOptInIfPhonePresent  float64 `mapstructure:"p_call_opt_in_if_phone_present"`
	PCallOptInIfPhoneMissing  float64 `mapstructure:"p_call_opt_in_if_phone_missing"`

	// Parallelism for sales generation (0 = auto-detect CPUs)
	NumWorkers int `mapstructure:"num_workers"`

	// Enable xz compression of output files
	Compress bool `mapstructure:"compress"`
}

// SalesConfig holds the journey simulation parameters.
// Every value maps onto one simulator parameter and can be overridden
// independently.
type SalesConfig struct {
	PBuyMonth  float64 `mapstructure:"p_buy_month"`
	PLostMonth float64 `mapstructure:"p_lost_month"`

	PDeviceIfNoDevice float64   `mapstructure:"p_device_if_no_device"`
	PDeviceRepeatBase float64   `mapstructure:"p_device_repeat_base"`
	DeviceRepeatDecay []float64 `mapstructure:"device_repeat_decay"`
	MaxDevices        int       `mapstructure:"max_devices"`

	PRefillWhenDevice   float64 `mapstructure:"p_refill_when_device"`
	PRefillWhenNoDevice float64 `mapstructure:"p_refill_when_no_device"`
	PAccessoryLine      float64 `mapstructure:"p_accessory_line"`
	PSparePartLine      float64 `mapstructure:"p_spare_part_line"`

	LinesMin int `mapstructure:"lines_min"`
	LinesMax int `mapstructure:"lines_max"`

	QtyDeviceMin    int `mapstructure:"qty_device_min"`
	QtyDeviceMax    int `mapstructure:"qty_device_max"`
	QtyRefillMin    int `mapstructure:"qty_refill_min"`
	QtyRefillMax    int `mapstructure:"qty_refill_max"`
	QtyAccessoryMin int `mapstructure:"qty_accessory_min"`
	QtyAccessoryMax int `mapstructure:"qty_accessory_max"`
	QtySpareMin     int `mapstructure:"qty_spare_min"`
	QtySpareMax     int `mapstructure:"qty_spare_max"`

	PriceDeviceMin    float64 `mapstructure:"price_device_min"`
	PriceDeviceMax    float64 `mapstructure:"price_device_max"`
	PriceRefillMin    float64 `mapstructure:"price_refill_min"`
	PriceRefillMax    float64 `mapstructure:"price_refill_max"`
	PriceAccessoryMin float64 `mapstructure:"price_accessory_min"`
	PriceAccessoryMax float64 `mapstructure:"price_accessory_max"`
	PriceSpareMin     float64 `mapstructure:"price_spare_min"`
	PriceSpareMax     float64 `mapstructure:"price_spare_max"`

	PReturnLine     float64 `mapstructure:"p_return_line"`
	PDiscountedLine float64 `mapstructure:"p_discounted_line"`
	DiscountMax     float64 `mapstructure:"discount_max"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	params := simulator.DefaultParams()

	return &Config{
		Database: DatabaseConfig{
			Driver:          DBDriver,
			MaxOpenConns:    DBMaxOpenConns,
			MaxIdleConns:    DBMaxIdleConns,
			ConnMaxLifetime: DBConnMaxLifetime,
			ConnMaxIdleTime: DBConnMaxIdleTime,
		},
		Generate: GenerateConfig{
			Seed:           0,
			OutputDir:      "./output",
			NumCustomers:   NumCustomers,
			TotalProducts:  TotalProducts,
			NumDevices:     NumDevices,
			NumAccessories: NumAccessories,
			NumSpareParts:  NumSpareParts,
			BulkRefills:    IncludeBulkRefills,
			NumStores:      NumStores,

			CreatedAtStart: CreatedAtStart,
			CreatedAtEnd:   CreatedAtEnd,
			Horizon:        Horizon,

			PFirstName: PFirstName,
			PLastName:  PLastName,
			PEmail:     PEmail,
			PPhone:     PPhone,

			PEmailOptInIfEmailPresent: PEmailOptInIfEmailPresent,
			PEmailOptInIfEmailMissing: PEmailOptInIfEmailMissing,
			PSMSOptInIfPhonePresent:   PSMSOptInIfPhonePresent,
			PSMSOptInIfPhoneMissing:   PSMSOptInIfPhoneMissing,
			PCallOptInIfPhonePresent:  PCallOptInIfPhonePresent,
			PCallOptInIfPhoneMissing:  PCallOptInIfPhoneMissing,

			NumWorkers: 0,
		},
		Sales: salesConfigFromParams(params),
	}
}

func salesConfigFromParams(p *simulator.Params) SalesConfig {
	return SalesConfig{
		PBuyMonth:  p.PBuyMonth,
		PLostMonth: p.PLostMonth,

		PDeviceIfNoDevice: p.PDeviceIfNoDevice,
		PDeviceRepeatBase: p.PDeviceRepeatBase,
		DeviceRepeatDecay: p.DeviceRepeatDecay,
		MaxDevices:        p.MaxDevices,

		PRefillWhenDevice:   p.PRefillWhenDevice,
		PRefillWhenNoDevice: p.PRefillWhenNoDevice,
		PAccessoryLine:      p.PAccessoryLine,
		PSparePartLine:      p.PSparePartLine,

		LinesMin: p.LinesRange.Min,
		LinesMax: p.LinesRange.Max,

		QtyDeviceMin:    p.QtyDevice.Min,
		QtyDeviceMax:    p.QtyDevice.Max,
		QtyRefillMin:    p.QtyRefill.Min,
		QtyRefillMax:    p.QtyRefill.Max,
		QtyAccessoryMin: p.QtyAccessory.Min,
		QtyAccessoryMax: p.QtyAccessory.Max,
		QtySpareMin:     p.QtySpare.Min,
		QtySpareMax:     p.QtySpare.Max,

		PriceDeviceMin:    p.PriceDevice.Min,
		PriceDeviceMax:    p.PriceDevice.Max,
		PriceRefillMin:    p.PriceRefill.Min,
		PriceRefillMax:    p.PriceRefill.Max,
		PriceAccessoryMin: p.PriceAccessory.Min,
		PriceAccessoryMax: p.PriceAccessory.Max,
		PriceSpareMin:     p.PriceSpare.Min,
		PriceSpareMax:     p.PriceSpare.Max,

		PReturnLine:     p.PReturnLine,
		PDiscountedLine: p.PDiscountedLine,
		DiscountMax:     p.DiscountMax,
	}
}

// Params converts the sales section into simulator parameters
func (s *SalesConfig) Params() *simulator.Params {
	return &simulator.Params{
		PBuyMonth:  s.PBuyMonth,
		PLostMonth: s.PLostMonth,

		PDeviceIfNoDevice: s.PDeviceIfNoDevice,
		PDeviceRepeatBase: s.PDeviceRepeatBase,
		DeviceRepeatDecay: s.DeviceRepeatDecay,
		MaxDevices:        s.MaxDevices,

		PRefillWhenDevice:   s.PRefillWhenDevice,
		PRefillWhenNoDevice: s.PRefillWhenNoDevice,
		PAccessoryLine:      s.PAccessoryLine,
		PSparePartLine:      s.PSparePartLine,

		LinesRange: simulator.IntRange{Min: s.LinesMin, Max: s.LinesMax},

		QtyDevice:    simulator.IntRange{Min: s.QtyDeviceMin, Max: s.QtyDeviceMax},
		QtyRefill:    simulator.IntRange{Min: s.QtyRefillMin, Max: s.QtyRefillMax},
		QtyAccessory: simulator.IntRange{Min: s.QtyAccessoryMin, Max: s.QtyAccessoryMax},
		QtySpare:     simulator.IntRange{Min: s.QtySpareMin, Max: s.QtySpareMax},

		PriceDevice:    simulator.FloatRange{Min: s.PriceDeviceMin, Max: s.PriceDeviceMax},
		PriceRefill:    simulator.FloatRange{Min: s.PriceRefillMin, Max: s.PriceRefillMax},
		PriceAccessory: simulator.FloatRange{Min: s.PriceAccessoryMin, Max: s.PriceAccessoryMax},
		PriceSpare:     simulator.FloatRange{Min: s.PriceSpareMin, Max: s.PriceSpareMax},

		PReturnLine:     s.PReturnLine,
		PDiscountedLine: s.PDiscountedLine,
		DiscountMax:     s.DiscountMax,
	}
}

// Load reads configuration from viper into a Config struct
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// ParseDate parses an ISO calendar date from the configuration
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", value, err)
	}
	return t.UTC(), nil
}

// Validate checks if the configuration is valid. It collects every
// problem before returning so one run surfaces them all.
func (c *Config) Validate() error {
	var errs []string

	if c.Generate.NumCustomers <= 0 {
		errs = append(errs, "generate.num_customers must be positive")
	}
	if c.Generate.TotalProducts <= 0 {
		errs = append(errs, "generate.total_products must be positive")
	}
	if c.Generate.NumDevices < 0 {
		errs = append(errs, "generate.num_devices must be non-negative")
	}
	if c.Generate.NumAccessories < 0 {
		errs = append(errs, "generate.num_accessories must be non-negative")
	}
	if c.Generate.NumSpareParts < 0 {
		errs = append(errs, "generate.num_spare_parts must be non-negative")
	}
	if c.Generate.NumStores < 0 {
		errs = append(errs, "generate.num_stores must be non-negative")
	}
	if c.Generate.NumWorkers < 0 {
		errs = append(errs, "generate.num_workers must be non-negative")
	}

	presence := []struct {
		name  string
		value float64
	}{
		{"generate.p_first_name", c.Generate.PFirstName},
		{"generate.p_last_name", c.Generate.PLastName},
		{"generate.p_email", c.Generate.PEmail},
		{"generate.p_phone", c.Generate.PPhone},
		{"generate.p_email_opt_in_if_email_present", c.Generate.PEmailOptInIfEmailPresent},
		{"generate.p_email_opt_in_if_email_missing", c.Generate.PEmailOptInIfEmailMissing},
		{"generate.p_sms_opt_in_if_phone_present", c.Generate.PSMSOptInIfPhonePresent},
		{"generate.p_sms_opt_in_if_phone_missing", c.Generate.PSMSOptInIfPhoneMissing},
		{"generate.p_call_opt_in_if_phone_present", c.Generate.PCallOptInIfPhonePresent},
		{"generate.p_call_opt_in_if_phone_missing", c.Generate.PCallOptInIfPhoneMissing},
	}
	for _, p := range presence {
		if p.value < 0 || p.value > 1 {
			errs = append(errs, fmt.Sprintf("%s must be between 0.0 and 1.0", p.name))
		}
	}

	start, startErr := ParseDate(c.Generate.CreatedAtStart)
	if startErr != nil {
		errs = append(errs, "generate.created_at_start: "+startErr.Error())
	}
	end, endErr := ParseDate(c.Generate.CreatedAtEnd)
	if endErr != nil {
		errs = append(errs, "generate.created_at_end: "+endErr.Error())
	}
	horizon, horizonErr := ParseDate(c.Generate.Horizon)
	if horizonErr != nil {
		errs = append(errs, "generate.horizon: "+horizonErr.Error())
	}
	if startErr == nil && endErr == nil && start.After(end) {
		errs = append(errs, "generate.created_at_start must not be after created_at_end")
	}
	if startErr == nil && horizonErr == nil && horizon.Before(start) {
		errs = append(errs, "generate.horizon must not be before created_at_start")
	}

	// The sales section carries its own detailed validation.
	if err := c.Sales.Params().Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	if c.Database.MaxOpenConns < 1 {
		errs = append(errs, "database.max_open_conns must be >= 1")
	}
	if c.Database.MaxIdleConns < 0 {
		errs = append(errs, "database.max_idle_conns must be >= 0")
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, "database.max_idle_conns should not exceed max_open_conns")
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation errors:\n  - %s", joinErrors(errs))
	}

	return nil
}

// joinErrors joins error messages with newline and bullet points
func joinErrors(errs []string) string {
	result := errs[0]
	for i := 1; i < len(errs); i++ {
		result += "\n  - " + errs[i]
	}
	return result
}
