package services

import (
	"github.com/guardian-portal/api/model"
	"gorm.io/gorm"
)

// Verdict is the tri-state outcome of an authorization check
type Verdict int

const (
	VerdictNotApplicable Verdict = iota // no authenticated actor
	VerdictDeny
	VerdictAllow
)

// Decision codes distinguish deny reasons that map to different HTTP
// statuses at the API layer.
const (
	CodeCrossCollege = "cross_college" // 403
	CodeNotAStudent  = "not_a_student" // 400
	CodeRoleDenied   = "role_denied"   // 403
)

// Decision is the result of an authorization check. An operation is wholly
// permitted or wholly denied; there is no partial allow.
type Decision struct {
	Verdict Verdict
	Reason  string
	Code    string
}

// Allowed reports whether the decision permits the operation.
func (d Decision) Allowed() bool { return d.Verdict == VerdictAllow }

func allow() Decision {
	return Decision{Verdict: VerdictAllow}
}

func deny(code, reason string) Decision {
	return Decision{Verdict: VerdictDeny, Code: code, Reason: reason}
}

func notApplicable() Decision {
	return Decision{Verdict: VerdictNotApplicable, Reason: "not authenticated"}
}

// CanCreateComplaint decides whether actor may file a new complaint. Only
// students file complaints; the college/branch on the new record are always
// taken from the filer's profile, never from the request.
func CanCreateComplaint(actor *model.User) Decision {
	if actor == nil {
		return notApplicable()
	}
	if actor.Role != model.RoleStudent {
		return deny(CodeRoleDenied, "only students can file complaints")
	}
	return allow()
}

// CanUpdateComplaint decides whether actor may change a complaint's status
// or assignee. Students are denied, including the filer.
func CanUpdateComplaint(actor *model.User) Decision {
	if actor == nil {
		return notApplicable()
	}
	switch actor.Role {
	case model.RoleAdmin, model.RolePrincipal, model.RoleSquad:
		return allow()
	default:
		return deny(CodeRoleDenied, "only admin, principal or squad can update complaints")
	}
}

// CanModerateStudent decides whether actor may suspend or unsuspend target.
// Only a principal may do this, only for students, and only within their
// own college.
func CanModerateStudent(actor, target *model.User) Decision {
	if actor == nil {
		return notApplicable()
	}
	if actor.Role != model.RolePrincipal {
		return deny(CodeRoleDenied, "only principals can suspend or unsuspend students")
	}
	if target == nil || target.Role != model.RoleStudent {
		return deny(CodeNotAStudent, "only students can be suspended")
	}
	if actor.CollegeID == nil || target.CollegeID == nil || *actor.CollegeID != *target.CollegeID {
		return deny(CodeCrossCollege, "you can only moderate students from your college")
	}
	return allow()
}

// CanPostNews decides whether actor may publish a news post.
func CanPostNews(actor *model.User) Decision {
	if actor == nil {
		return notApplicable()
	}
	if actor.Role != model.RoleAdmin {
		return deny(CodeRoleDenied, "only administrators can post news")
	}
	return allow()
}

// CanDeleteUser decides whether actor may delete an account.
func CanDeleteUser(actor *model.User) Decision {
	if actor == nil {
		return notApplicable()
	}
	if actor.Role != model.RoleAdmin {
		return deny(CodeRoleDenied, "only administrators can delete accounts")
	}
	return allow()
}

// Scope is a pure description of which rows an actor's list query returns.
// Exactly one of All/None or the filter fields applies.
type Scope struct {
	All          bool
	None         bool
	CollegeID    *uint // rows whose college matches
	AssignedToID *uint // rows assigned to this user
	OwnerID      *uint // rows owned/filed/authored by this user
}

// ComplaintVisibility computes the visibility scope for complaint listings:
// admin sees all, a principal their college, a squad member what is assigned
// to them, a student what they filed.
func ComplaintVisibility(actor *model.User) Scope {
	if actor == nil {
		return Scope{None: true}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RolePrincipal:
		if actor.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: actor.CollegeID}
	case model.RoleSquad:
		id := actor.ID
		return Scope{AssignedToID: &id}
	default:
		id := actor.ID
		return Scope{OwnerID: &id}
	}
}

// StudentVisibility computes the visibility scope for student listings.
// Squad members see no student roster at all.
func StudentVisibility(actor *model.User) Scope {
	if actor == nil {
		return Scope{None: true}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RolePrincipal:
		if actor.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: actor.CollegeID}
	case model.RoleSquad:
		return Scope{None: true}
	default:
		id := actor.ID
		return Scope{OwnerID: &id}
	}
}

// FeedbackVisibility computes the visibility scope for feedback listings.
// Principals and squad members see feedback written by users of their
// college; students see only their own.
func FeedbackVisibility(actor *model.User) Scope {
	if actor == nil {
		return Scope{None: true}
	}
	switch actor.Role {
	case model.RoleAdmin:
		return Scope{All: true}
	case model.RolePrincipal, model.RoleSquad:
		if actor.CollegeID == nil {
			return Scope{None: true}
		}
		return Scope{CollegeID: actor.CollegeID}
	default:
		id := actor.ID
		return Scope{OwnerID: &id}
	}
}

// ApplyToComplaints narrows a complaint query to the scope.
func (s Scope) ApplyToComplaints(q *gorm.DB) *gorm.DB {
	switch {
	case s.All:
		return q
	case s.None:
		return q.Where("1 = 0")
	case s.CollegeID != nil:
		return q.Where("complaints.college_id = ?", *s.CollegeID)
	case s.AssignedToID != nil:
		return q.Where("complaints.assigned_to_id = ?", *s.AssignedToID)
	case s.OwnerID != nil:
		return q.Where("complaints.student_id = ?", *s.OwnerID)
	}
	return q.Where("1 = 0")
}

// ApplyToStudents narrows a user query to students within the scope.
func (s Scope) ApplyToStudents(q *gorm.DB) *gorm.DB {
	q = q.Where("users.role = ?", model.RoleStudent)
	switch {
	case s.All:
		return q
	case s.None:
		return q.Where("1 = 0")
	case s.CollegeID != nil:
		return q.Where("users.college_id = ?", *s.CollegeID)
	case s.OwnerID != nil:
		return q.Where("users.id = ?", *s.OwnerID)
	}
	return q.Where("1 = 0")
}

// ApplyToFeedback narrows a feedback query to the scope. College scoping
// goes through the author since feedback has no college column.
func (s Scope) ApplyToFeedback(q *gorm.DB) *gorm.DB {
	switch {
	case s.All:
		return q
	case s.None:
		return q.Where("1 = 0")
	case s.CollegeID != nil:
		return q.Joins("JOIN users ON users.id = feedbacks.user_id").
			Where("users.college_id = ?", *s.CollegeID)
	case s.OwnerID != nil:
		return q.Where("feedbacks.user_id = ?", *s.OwnerID)
	}
	return q.Where("1 = 0")
}

// Covers reports whether a single complaint falls inside the scope. Used
// for detail reads and mutations so a record invisible in a listing cannot
// be fetched or changed directly either.
func (s Scope) Covers(c *model.Complaint) bool {
	switch {
	case s.All:
		return true
	case s.None:
		return false
	case s.CollegeID != nil:
		return c.CollegeID != nil && *c.CollegeID == *s.CollegeID
	case s.AssignedToID != nil:
		return c.AssignedToID != nil && *c.AssignedToID == *s.AssignedToID
	case s.OwnerID != nil:
		return c.StudentID == *s.OwnerID
	}
	return false
}
