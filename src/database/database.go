package database

import (
	"database/sql"
	stdlog "log"

	"github.com/PaoloMadone/invest/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Checking database migrations", "databasePath", databasePath)
	} else {
		stdlog.Println("Checking database migrations for:", databasePath)
	}
	migrateTransactionsTable()

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		user_agent TEXT,
		client_ip TEXT,
		is_blocked BOOLEAN DEFAULT FALSE,
		expires_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS incomes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		month INTEGER NOT NULL,
		year INTEGER NOT NULL,
		period TEXT NOT NULL,
		amount REAL NOT NULL,
		stock_allocation REAL NOT NULL,
		crypto_allocation REAL NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id),
		UNIQUE(user_id, period)
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		symbol TEXT NOT NULL,
		asset_class TEXT NOT NULL,
		operation TEXT NOT NULL,
		quantity REAL NOT NULL,
		unit_price REAL NOT NULL,
		amount REAL NOT NULL,
		out_of_budget BOOLEAN DEFAULT FALSE,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS symbol_mappings (
		user_symbol TEXT PRIMARY KEY,
		provider_symbol TEXT NOT NULL,
		company_name TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		last_checked_at TIMESTAMP
	);
	`

	_, err = DB.Exec(createTableStatement)
	if err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}

// migrateTransactionsTable adds columns introduced after the first schema
// version. Older databases carried purchases only, without operation kind or
// the out-of-budget flag.
func migrateTransactionsTable() {
	var tableName string
	err := DB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='transactions'").Scan(&tableName)
	if err != nil {
		if err == sql.ErrNoRows {
			if logger.L != nil {
				logger.L.Info("'transactions' table does not exist, no migration needed as table will be created.")
			} else {
				stdlog.Println("'transactions' table does not exist, no migration needed as table will be created.")
			}
			return
		}
		if logger.L != nil {
			logger.L.Error("Error checking for 'transactions' table", "error", err)
		} else {
			stdlog.Printf("Error checking for 'transactions' table: %v", err)
		}
		return
	}

	rows, err := DB.Query("PRAGMA table_info(transactions)")
	if err != nil {
		if logger.L != nil {
			logger.L.Error("Error querying table schema for 'transactions'", "error", err)
		} else {
			stdlog.Printf("Error querying table schema for 'transactions': %v", err)
		}
		return
	}
	defer rows.Close()

	columnExists := make(map[string]bool)
	for rows.Next() {
		var cid, pk int
		var name, dataType string
		var notnullVal int
		var dfltValue interface{}

		if err := rows.Scan(&cid, &name, &dataType, &notnullVal, &dfltValue, &pk); err != nil {
			if logger.L != nil {
				logger.L.Error("Error scanning column info for 'transactions'", "error", err)
			} else {
				stdlog.Printf("Error scanning column info for 'transactions': %v", err)
			}
			return
		}
		columnExists[name] = true
	}
	if err = rows.Err(); err != nil {
		if logger.L != nil {
			logger.L.Error("Error iterating over column info for 'transactions'", "error", err)
		} else {
			stdlog.Printf("Error iterating over column info for 'transactions': %v", err)
		}
		return
	}

	if _, ok := columnExists["operation"]; !ok {
		_, err := DB.Exec("ALTER TABLE transactions ADD COLUMN operation TEXT NOT NULL DEFAULT 'Purchase'")
		if err != nil {
			logger.L.Error("Error adding 'operation' column to 'transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'operation' column to 'transactions' table")
		}
	}
	if _, ok := columnExists["out_of_budget"]; !ok {
		_, err := DB.Exec("ALTER TABLE transactions ADD COLUMN out_of_budget BOOLEAN DEFAULT FALSE")
		if err != nil {
			logger.L.Error("Error adding 'out_of_budget' column to 'transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'out_of_budget' column to 'transactions' table")
		}
	}
	if _, ok := columnExists["asset_class"]; !ok {
		_, err := DB.Exec("ALTER TABLE transactions ADD COLUMN asset_class TEXT NOT NULL DEFAULT 'stock'")
		if err != nil {
			logger.L.Error("Error adding 'asset_class' column to 'transactions' table", "error", err)
		} else {
			logger.L.Info("Added 'asset_class' column to 'transactions' table")
		}
	}
}
