package database

// Migrations is the ordered list of schema versions. New schema changes are
// appended as new entries; existing entries are never edited once deployed.
var Migrations = []Migration{
	{
		Version: "001",
		Name:    "create accounts",
		Statements: []string{`CREATE TABLE IF NOT EXISTS accounts (
			id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			username        VARCHAR(64)  NOT NULL,
			email           VARCHAR(255) NOT NULL,
			password_hash   VARCHAR(100) NOT NULL,
			role            ENUM('manager','admin') NOT NULL DEFAULT 'manager',
			full_name       VARCHAR(255) NULL,
			phone           VARCHAR(32)  NULL,
			failed_attempts INT          NOT NULL DEFAULT 0,
			locked_until    DATETIME     NULL,
			expires_at      DATETIME     NULL,
			created_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uq_accounts_username (username),
			UNIQUE KEY uq_accounts_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "002",
		Name:    "create properties",
		Statements: []string{`CREATE TABLE IF NOT EXISTS properties (
			id                 BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id         BIGINT UNSIGNED NOT NULL,
			name               VARCHAR(255) NOT NULL,
			address            VARCHAR(512) NOT NULL,
			type               VARCHAR(64)  NOT NULL,
			bedrooms           INT           NULL,
			bathrooms          INT           NULL,
			area_sqm           DECIMAL(10,2) NULL,
			monthly_rent       DECIMAL(12,2) NULL,
			currency           CHAR(3)       NOT NULL DEFAULT 'AED',
			status             ENUM('vacant','occupied','maintenance') NOT NULL DEFAULT 'vacant',
			electricity_number VARCHAR(64)   NULL,
			water_number       VARCHAR(64)   NULL,
			created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_properties_account (account_id),
			CONSTRAINT fk_properties_account FOREIGN KEY (account_id) REFERENCES accounts(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "003",
		Name:    "create tenants",
		Statements: []string{`CREATE TABLE IF NOT EXISTS tenants (
			id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id      BIGINT UNSIGNED NOT NULL,
			property_id     BIGINT UNSIGNED NULL,
			full_name       VARCHAR(255) NOT NULL,
			email           VARCHAR(255) NULL,
			phone           VARCHAR(32)  NULL,
			id_number       VARCHAR(64)  NULL,
			lease_start     DATE          NULL,
			lease_end       DATE          NULL,
			monthly_rent    DECIMAL(12,2) NULL,
			currency        CHAR(3)       NOT NULL DEFAULT 'AED',
			status          ENUM('active','expired') NOT NULL DEFAULT 'active',
			free_month_type ENUM('first','last','custom') NULL,
			free_month      CHAR(7)       NULL,
			created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_tenants_account (account_id),
			KEY idx_tenants_property (property_id),
			CONSTRAINT fk_tenants_account FOREIGN KEY (account_id) REFERENCES accounts(id),
			CONSTRAINT fk_tenants_property FOREIGN KEY (property_id) REFERENCES properties(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "004",
		Name:    "create cheques",
		Statements: []string{`CREATE TABLE IF NOT EXISTS cheques (
			id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			tenant_id     BIGINT UNSIGNED NOT NULL,
			cheque_number VARCHAR(64)   NOT NULL,
			bank_name     VARCHAR(128)  NULL,
			cheque_date   DATE          NULL,
			amount        DECIMAL(12,2) NOT NULL,
			is_security   TINYINT(1)    NOT NULL DEFAULT 0,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_cheques_tenant (tenant_id),
			CONSTRAINT fk_cheques_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id) ON DELETE CASCADE
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "005",
		Name:    "create maintenance requests",
		Statements: []string{`CREATE TABLE IF NOT EXISTS maintenance_requests (
			id           BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id   BIGINT UNSIGNED NOT NULL,
			property_id  BIGINT UNSIGNED NULL,
			tenant_id    BIGINT UNSIGNED NULL,
			title        VARCHAR(255) NOT NULL,
			description  TEXT         NULL,
			priority     VARCHAR(16)  NOT NULL DEFAULT 'medium',
			status       VARCHAR(32)  NOT NULL DEFAULT 'pending',
			completed_at DATETIME     NULL,
			created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_maintenance_account (account_id),
			CONSTRAINT fk_maintenance_account FOREIGN KEY (account_id) REFERENCES accounts(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "006",
		Name:    "create financial records",
		Statements: []string{`CREATE TABLE IF NOT EXISTS financial_records (
			id               BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id       BIGINT UNSIGNED NOT NULL,
			property_id      BIGINT UNSIGNED NULL,
			tenant_id        BIGINT UNSIGNED NULL,
			record_type      VARCHAR(32)   NOT NULL,
			amount           DECIMAL(12,2) NOT NULL,
			currency         CHAR(3)       NOT NULL DEFAULT 'AED',
			description      VARCHAR(512)  NULL,
			transaction_date DATE          NOT NULL,
			created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			KEY idx_financial_account (account_id),
			CONSTRAINT fk_financial_account FOREIGN KEY (account_id) REFERENCES accounts(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "007",
		Name:    "create rent tracking",
		Statements: []string{`CREATE TABLE IF NOT EXISTS rent_tracking (
			id             BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id     BIGINT UNSIGNED NOT NULL,
			property_id    BIGINT UNSIGNED NOT NULL,
			tenant_id      BIGINT UNSIGNED NOT NULL,
			rent_month     CHAR(7)       NOT NULL,
			due_date       DATE          NOT NULL,
			total_amount   DECIMAL(12,2) NOT NULL,
			payment_method ENUM('cash','cheque','online','partial') NOT NULL,
			payment_amount DECIMAL(12,2) NOT NULL,
			payment_date   DATE          NOT NULL,
			created_at     TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_rent_property_tenant_month (property_id, tenant_id, rent_month),
			KEY idx_rent_account_month (account_id, rent_month),
			CONSTRAINT fk_rent_account FOREIGN KEY (account_id) REFERENCES accounts(id),
			CONSTRAINT fk_rent_property FOREIGN KEY (property_id) REFERENCES properties(id),
			CONSTRAINT fk_rent_tenant FOREIGN KEY (tenant_id) REFERENCES tenants(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
	{
		Version: "008",
		Name:    "create rent method details",
		Statements: []string{
			`CREATE TABLE IF NOT EXISTS rent_cash_details (
				rent_id        BIGINT UNSIGNED NOT NULL PRIMARY KEY,
				receipt_number VARCHAR(64)  NULL,
				received_by    VARCHAR(128) NULL,
				notes          VARCHAR(512) NULL,
				CONSTRAINT fk_rent_cash FOREIGN KEY (rent_id) REFERENCES rent_tracking(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS rent_cheque_details (
				rent_id       BIGINT UNSIGNED NOT NULL PRIMARY KEY,
				cheque_number VARCHAR(64)  NOT NULL,
				bank_name     VARCHAR(128) NULL,
				cheque_date   DATE         NULL,
				CONSTRAINT fk_rent_cheque FOREIGN KEY (rent_id) REFERENCES rent_tracking(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS rent_online_details (
				rent_id         BIGINT UNSIGNED NOT NULL PRIMARY KEY,
				transaction_ref VARCHAR(128) NOT NULL,
				bank_name       VARCHAR(128) NULL,
				transfer_date   DATE         NULL,
				CONSTRAINT fk_rent_online FOREIGN KEY (rent_id) REFERENCES rent_tracking(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
			`CREATE TABLE IF NOT EXISTS rent_partial_details (
				rent_id           BIGINT UNSIGNED NOT NULL PRIMARY KEY,
				reason            VARCHAR(255)  NOT NULL,
				remaining_balance DECIMAL(12,2) NOT NULL,
				notes             VARCHAR(512)  NULL,
				CONSTRAINT fk_rent_partial FOREIGN KEY (rent_id) REFERENCES rent_tracking(id) ON DELETE CASCADE
			) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		},
	},
	{
		Version: "009",
		Name:    "create data shares",
		Statements: []string{`CREATE TABLE IF NOT EXISTS data_shares (
			id              BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
			account_id      BIGINT UNSIGNED NOT NULL,
			token           CHAR(32)     NOT NULL,
			data_type       VARCHAR(32)  NOT NULL DEFAULT 'all',
			recipient_email VARCHAR(255) NULL,
			expires_at      DATETIME     NOT NULL,
			created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_data_shares_token (token),
			CONSTRAINT fk_shares_account FOREIGN KEY (account_id) REFERENCES accounts(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	},
}
