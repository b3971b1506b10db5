package catalog

// Schema contains the SQL statements to create the catalog schema.
// Names collate case-insensitively so lookups match however the caller
// spells an ingredient.
const Schema = `
CREATE TABLE IF NOT EXISTS ingredients (
    name TEXT PRIMARY KEY COLLATE NOCASE,
    cas TEXT NOT NULL,
    family TEXT NOT NULL,
    note_type TEXT NOT NULL,
    logp REAL NOT NULL,
    descriptors TEXT
);

CREATE INDEX IF NOT EXISTS idx_ingredients_family ON ingredients(family);
CREATE INDEX IF NOT EXISTS idx_ingredients_note_type ON ingredients(note_type);
`

const insertIngredient = `
INSERT OR IGNORE INTO ingredients (name, cas, family, note_type, logp, descriptors)
VALUES (?, ?, ?, ?, ?, ?)
`

const selectColumns = `name, cas, family, note_type, logp, descriptors`
