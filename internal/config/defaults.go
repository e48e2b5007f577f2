// Package config contains compile-time defaults for the dataset
// generator. Edit these values and recompile to tune behavior.
package config

import "time"

// =============================================================================
// VOLUME DEFAULTS
// =============================================================================

const (
	// NumCustomers is the customer base size
	NumCustomers = 10000

	// TotalProducts is the final catalog size after mixing
	TotalProducts = 100

	// NumDevices is the fixed number of diffuser devices in the catalog
	NumDevices = 5

	// NumAccessories is the fixed number of accessories in the catalog
	NumAccessories = 10

	// NumSpareParts is the fixed number of spare parts in the catalog
	NumSpareParts = 8

	// IncludeBulkRefills adds the fixed industrial-size refill rows
	IncludeBulkRefills = true

	// NumStores is how many store ids (S0001..) invoices draw from
	NumStores = 20
)

// =============================================================================
// TIMELINE DEFAULTS
// =============================================================================

const (
	// CreatedAtStart is the first possible customer signup date
	CreatedAtStart = "2015-01-01"

	// CreatedAtEnd is the last possible customer signup date
	CreatedAtEnd = "2025-12-31"

	// Horizon is the last date any invoice may carry
	Horizon = "2025-12-31"
)

// =============================================================================
// CUSTOMER FIELD DEFAULTS
// =============================================================================

// Contact field presence probabilities
const (
	PFirstName = 0.90
	PLastName  = 0.60
	PEmail     = 0.70
	PPhone     = 0.80
)

// Opt-in probabilities conditioned on channel presence
const (
	PEmailOptInIfEmailPresent = 0.60
	PEmailOptInIfEmailMissing = 0.05
	PSMSOptInIfPhonePresent   = 0.90
	PSMSOptInIfPhoneMissing   = 0.15
	PCallOptInIfPhonePresent  = 0.75
	PCallOptInIfPhoneMissing  = 0.08
)

// =============================================================================
// DATABASE DEFAULTS
// =============================================================================

const (
	// DBDriver is the database driver to use
	DBDriver = "mysql"

	// DBMaxOpenConns is maximum open connections in the pool
	DBMaxOpenConns = 100

	// DBMaxIdleConns is maximum idle connections in the pool
	DBMaxIdleConns = 10

	// DBConnMaxLifetime is how long a connection can be reused
	DBConnMaxLifetime = 5 * time.Minute

	// DBConnMaxIdleTime is how long an idle connection is kept
	DBConnMaxIdleTime = 1 * time.Minute
)
