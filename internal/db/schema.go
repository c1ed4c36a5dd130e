package db

// schemaSQL is the complete schema for a fresh install. Statements are
// idempotent so EnsureSchema can run at every startup.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS parsed_prps (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	youtube_url TEXT NOT NULL,
	video_id TEXT NOT NULL,
	video_title TEXT NOT NULL,
	video_description TEXT NOT NULL DEFAULT '',
	channel_title TEXT NOT NULL DEFAULT '',
	published_at TIMESTAMPTZ,
	duration TEXT NOT NULL DEFAULT '',
	transcript TEXT NOT NULL DEFAULT '',
	content JSONB NOT NULL,
	created_by TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	notion_page_id TEXT,
	notion_sync_status TEXT NOT NULL DEFAULT 'not_synced'
		CHECK (notion_sync_status IN ('not_synced', 'syncing', 'synced', 'failed')),
	notion_synced_at TIMESTAMPTZ,
	notion_sync_error TEXT
);

CREATE TABLE IF NOT EXISTS prp_tasks (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	prp_id UUID NOT NULL REFERENCES parsed_prps(id) ON DELETE CASCADE,
	task_order INT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	task_type TEXT NOT NULL
		CHECK (task_type IN ('create', 'modify', 'test', 'deploy', 'analyze', 'design', 'document', 'research', 'review', 'other')),
	file_path TEXT,
	pseudocode TEXT,
	status TEXT NOT NULL DEFAULT 'pending'
		CHECK (status IN ('pending', 'in_progress', 'completed', 'blocked')),
	completed_at TIMESTAMPTZ,
	completed_by TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (prp_id, task_order)
);

CREATE INDEX IF NOT EXISTS idx_parsed_prps_created_by ON parsed_prps(created_by);
CREATE INDEX IF NOT EXISTS idx_parsed_prps_created_at ON parsed_prps(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_parsed_prps_youtube_url ON parsed_prps(youtube_url);
CREATE INDEX IF NOT EXISTS idx_parsed_prps_video_id ON parsed_prps(video_id);
CREATE INDEX IF NOT EXISTS idx_parsed_prps_sync_status ON parsed_prps(notion_sync_status);
CREATE INDEX IF NOT EXISTS idx_prp_tasks_prp_id ON prp_tasks(prp_id);
CREATE INDEX IF NOT EXISTS idx_prp_tasks_status ON prp_tasks(status);
CREATE INDEX IF NOT EXISTS idx_prp_tasks_type ON prp_tasks(task_type);

CREATE OR REPLACE VIEW prp_summaries AS
SELECT
	p.id,
	p.name,
	p.youtube_url,
	p.video_id,
	p.video_title,
	p.channel_title,
	p.created_by,
	p.created_at,
	p.notion_sync_status,
	COUNT(t.id) AS task_count,
	COUNT(t.id) FILTER (WHERE t.status = 'pending') AS pending_count,
	COUNT(t.id) FILTER (WHERE t.status = 'in_progress') AS in_progress_count,
	COUNT(t.id) FILTER (WHERE t.status = 'completed') AS completed_count,
	COUNT(t.id) FILTER (WHERE t.status = 'blocked') AS blocked_count
FROM parsed_prps p
LEFT JOIN prp_tasks t ON t.prp_id = p.id
GROUP BY p.id;
`
