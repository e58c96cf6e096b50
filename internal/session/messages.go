package session

// Messages dispatched from screens to the app controller. They are plain
// structs delivered through the Bubble Tea update loop; the controller
// intercepts them before routing, so screens never touch the supervisors
// directly.

// ChangedMsg announces that the tracked tuple (cursor, attempt log,
// auxiliary navigation state) changed. The controller reschedules the
// debounced snapshot save in response.
type ChangedMsg struct{}

// StartRequestMsg asks the controller to start a new session for a topic.
type StartRequestMsg struct {
	TopicID   string
	TopicName string
}

// ResumeRequestMsg asks the controller to resume an unfinished session.
type ResumeRequestMsg struct {
	TopicID string
}

// TerminateRequestMsg asks the controller to explicitly abandon an
// unfinished session, removing its snapshot.
type TerminateRequestMsg struct {
	TopicID string
}

// FinishedMsg announces that the session reached the terminal finished
// state; the controller supersedes the snapshot and releases the lock.
type FinishedMsg struct{}

// RecordFailedMsg carries a non-fatal answer-recording failure; the
// controller logs it and gameplay continues on local state.
type RecordFailedMsg struct {
	Err error
}

// QuitRequestMsg asks the controller to exit. While the lock is held the
// controller demands confirmation instead of quitting silently.
type QuitRequestMsg struct{}
