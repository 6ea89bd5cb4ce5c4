package sqlite

import "fmt"

const (
	conversationsTable = "conversations"
	leadsTable         = "leads"
)

var createTables = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL,
  content TEXT NOT NULL,
  type TEXT NOT NULL,
  created_at TIMESTAMP,
  timestamp TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS %s (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL,
  email TEXT NOT NULL,
  conversation TEXT NOT NULL,
  timestamp TIMESTAMP NOT NULL
);`,
	conversationsTable,
	leadsTable,
)

var insertMessage = fmt.Sprintf(`
INSERT INTO %s (id, content, type, created_at, timestamp)
VALUES (?, ?, ?, ?, ?);`,
	conversationsTable,
)

var selectMessages = fmt.Sprintf(`
SELECT id, content, type, created_at, timestamp
FROM %s
ORDER BY seq ASC;`,
	conversationsTable,
)

var insertLead = fmt.Sprintf(`
INSERT INTO %s (id, email, conversation, timestamp)
VALUES (?, ?, ?, ?);`,
	leadsTable,
)

var selectLeads = fmt.Sprintf(`
SELECT id, email, conversation, timestamp
FROM %s
ORDER BY seq ASC;`,
	leadsTable,
)
