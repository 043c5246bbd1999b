package storage

const schema = `
-- The 'labels' table stores the colored tags that group contents by subject.
CREATE TABLE IF NOT EXISTS labels (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE,
    color TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

-- The 'contents' table stores the study topics. created_at never changes.
CREATE TABLE IF NOT EXISTS contents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    label_id INTEGER NOT NULL,
    created_at DATETIME NOT NULL,

    FOREIGN KEY(label_id) REFERENCES labels(id)
);

-- The 'reviews' table holds exactly one row per (content, review kind).
-- scheduled_date is a YYYY-MM-DD string so that text comparison orders dates.
CREATE TABLE IF NOT EXISTS reviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    content_id INTEGER NOT NULL,
    review_type TEXT NOT NULL CHECK (review_type IN ('next_day', 'one_week', 'one_month', 'three_months')),
    scheduled_date TEXT NOT NULL,
    completed INTEGER NOT NULL DEFAULT 0,
    completed_at DATETIME,

    UNIQUE(content_id, review_type),
    FOREIGN KEY(content_id) REFERENCES contents(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_reviews_date ON reviews(scheduled_date, completed);
CREATE INDEX IF NOT EXISTS idx_reviews_content ON reviews(content_id);
`
