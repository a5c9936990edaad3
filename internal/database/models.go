package database

import "time"

// Interaction represents one logged exchange: the user's input paired with
// the bot's response, tagged with the browser session that produced it.
type Interaction struct {
	ID          int64     `db:"id"`
	SessionID   string    `db:"session_id"`
	UserInput   string    `db:"user_input"`
	BotResponse string    `db:"bot_response"`
	Timestamp   time.Time `db:"timestamp"`
}

// TranscriptEntry is one persisted turn of a session transcript, in the
// "User: ..." / "Bot: ..." form used to build generation prompts.
type TranscriptEntry struct {
	ID        int64     `db:"id"`
	SessionID string    `db:"session_id"`
	Entry     string    `db:"entry"`
	CreatedAt time.Time `db:"created_at"`
}
