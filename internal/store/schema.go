package store

// schemaStatements define the SQL schema shared by the sqlite and dolt
// backends. They run one at a time because the dolt driver does not accept
// multiple statements per Exec.
//
// Tables:
//   - sheets: one row per saved sheet, keyed by a UUID
//   - cells: the raw contents of every non-empty cell
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sheets (
    id VARCHAR(36) PRIMARY KEY,
    name VARCHAR(128) NOT NULL UNIQUE,
    version VARCHAR(255) NOT NULL,
    updated_at VARCHAR(32) NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS cells (
    sheet_id VARCHAR(36) NOT NULL,
    name VARCHAR(255) NOT NULL,
    contents TEXT NOT NULL,
    PRIMARY KEY (sheet_id, name)
)`,
}

// initSchema creates the database tables if they don't exist.
func (s *SQLStore) initSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
