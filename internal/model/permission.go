package model

// Permission represents a string code for a specific system action.
type Permission string

const (
	// PermissionCoursesRead allows viewing courses, chapters, and lessons.
	PermissionCoursesRead Permission = "courses:read"

	// PermissionCoursesWrite allows creating, updating, and deleting courses,
	// chapters, and lessons.
	PermissionCoursesWrite Permission = "courses:write"

	// PermissionDocumentsRead allows viewing the document library.
	PermissionDocumentsRead Permission = "documents:read"

	// PermissionDocumentsWrite allows uploading and deleting documents.
	PermissionDocumentsWrite Permission = "documents:write"

	// PermissionExamsRead allows viewing exam configurations and results.
	PermissionExamsRead Permission = "exams:read"

	// PermissionExamsWrite allows creating, updating, and deleting exams.
	PermissionExamsWrite Permission = "exams:write"

	// PermissionQuestionsWrite allows managing a chapter's question pool.
	PermissionQuestionsWrite Permission = "questions:write"

	// PermissionLearnersRead allows viewing learner lists and details.
	PermissionLearnersRead Permission = "learners:read"

	// PermissionLearnersWrite allows creating and updating learners.
	PermissionLearnersWrite Permission = "learners:write"

	// PermissionLearnersResetSession allows resetting a learner's active session.
	PermissionLearnersResetSession Permission = "learners:reset_session"

	// PermissionAdminsRead allows viewing admin user lists and details.
	PermissionAdminsRead Permission = "admins:read"

	// PermissionAdminsWrite allows creating, updating, and deleting admin users.
	PermissionAdminsWrite Permission = "admins:write"

	// PermissionRolesRead allows viewing admin roles and permissions.
	PermissionRolesRead Permission = "roles:read"

	// PermissionRolesWrite allows creating, updating, and deleting admin roles.
	PermissionRolesWrite Permission = "roles:write"
)

// AllPermissions is a slice of all available permissions.
var AllPermissions = []Permission{
	PermissionCoursesRead,
	PermissionCoursesWrite,
	PermissionDocumentsRead,
	PermissionDocumentsWrite,
	PermissionExamsRead,
	PermissionExamsWrite,
	PermissionQuestionsWrite,
	PermissionLearnersRead,
	PermissionLearnersWrite,
	PermissionLearnersResetSession,
	PermissionAdminsRead,
	PermissionAdminsWrite,
	PermissionRolesRead,
	PermissionRolesWrite,
}
