package services

import (
	"testing"

	"github.com/guardian-portal/api/model"
)

func uintPtr(v uint) *uint { return &v }

func makeUser(id uint, role model.Role, collegeID *uint) *model.User {
	return &model.User{ID: id, Role: role, CollegeID: collegeID}
}

func TestCanCreateComplaint(t *testing.T) {
	tests := []struct {
		name  string
		actor *model.User
		want  Verdict
	}{
		{"student allowed", makeUser(1, model.RoleStudent, uintPtr(1)), VerdictAllow},
		{"admin denied", makeUser(2, model.RoleAdmin, nil), VerdictDeny},
		{"principal denied", makeUser(3, model.RolePrincipal, uintPtr(1)), VerdictDeny},
		{"squad denied", makeUser(4, model.RoleSquad, uintPtr(1)), VerdictDeny},
		{"anonymous not applicable", nil, VerdictNotApplicable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanCreateComplaint(tt.actor); got.Verdict != tt.want {
				t.Errorf("verdict = %v, want %v (reason %q)", got.Verdict, tt.want, got.Reason)
			}
		})
	}
}

func TestCanUpdateComplaint(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RolePrincipal, model.RoleSquad} {
		if d := CanUpdateComplaint(makeUser(1, role, nil)); !d.Allowed() {
			t.Errorf("%s should be allowed to update complaints", role)
		}
	}
	if d := CanUpdateComplaint(makeUser(1, model.RoleStudent, nil)); d.Allowed() {
		t.Error("student must not update complaints")
	}
	if d := CanUpdateComplaint(nil); d.Verdict != VerdictNotApplicable {
		t.Error("nil actor should be not applicable")
	}
}

func TestCanModerateStudent(t *testing.T) {
	principal := makeUser(1, model.RolePrincipal, uintPtr(7))

	t.Run("same college student", func(t *testing.T) {
		target := makeUser(2, model.RoleStudent, uintPtr(7))
		if d := CanModerateStudent(principal, target); !d.Allowed() {
			t.Errorf("expected allow, got %q", d.Reason)
		}
	})

	t.Run("cross college", func(t *testing.T) {
		target := makeUser(2, model.RoleStudent, uintPtr(8))
		d := CanModerateStudent(principal, target)
		if d.Allowed() {
			t.Fatal("expected deny")
		}
		if d.Code != CodeCrossCollege {
			t.Errorf("code = %q, want %q", d.Code, CodeCrossCollege)
		}
	})

	t.Run("target not a student", func(t *testing.T) {
		target := makeUser(2, model.RoleSquad, uintPtr(7))
		d := CanModerateStudent(principal, target)
		if d.Allowed() {
			t.Fatal("expected deny")
		}
		if d.Code != CodeNotAStudent {
			t.Errorf("code = %q, want %q", d.Code, CodeNotAStudent)
		}
	})

	t.Run("actor not a principal", func(t *testing.T) {
		admin := makeUser(3, model.RoleAdmin, nil)
		target := makeUser(2, model.RoleStudent, uintPtr(7))
		if d := CanModerateStudent(admin, target); d.Allowed() {
			t.Error("only principals may moderate students")
		}
	})

	t.Run("principal without college", func(t *testing.T) {
		orphan := makeUser(4, model.RolePrincipal, nil)
		target := makeUser(2, model.RoleStudent, uintPtr(7))
		d := CanModerateStudent(orphan, target)
		if d.Allowed() {
			t.Fatal("expected deny")
		}
		if d.Code != CodeCrossCollege {
			t.Errorf("code = %q, want %q", d.Code, CodeCrossCollege)
		}
	})
}

func TestComplaintVisibility(t *testing.T) {
	complaint := &model.Complaint{
		ID:           10,
		StudentID:    5,
		CollegeID:    uintPtr(7),
		AssignedToID: uintPtr(9),
	}

	t.Run("admin sees all", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(1, model.RoleAdmin, nil))
		if !s.All || !s.Covers(complaint) {
			t.Error("admin scope should cover everything")
		}
	})

	t.Run("principal same college", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(2, model.RolePrincipal, uintPtr(7)))
		if !s.Covers(complaint) {
			t.Error("principal should see own-college complaint")
		}
	})

	t.Run("principal other college", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(2, model.RolePrincipal, uintPtr(8)))
		if s.Covers(complaint) {
			t.Error("principal must not see other-college complaint")
		}
	})

	t.Run("principal without college sees nothing", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(2, model.RolePrincipal, nil))
		if !s.None {
			t.Error("expected empty scope")
		}
	})

	t.Run("squad assigned", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(9, model.RoleSquad, uintPtr(7)))
		if !s.Covers(complaint) {
			t.Error("assignee should see their assignment")
		}
	})

	t.Run("squad unassigned", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(11, model.RoleSquad, uintPtr(7)))
		if s.Covers(complaint) {
			t.Error("squad must not see complaints assigned to others")
		}
	})

	t.Run("student own filing", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(5, model.RoleStudent, uintPtr(7)))
		if !s.Covers(complaint) {
			t.Error("filer should see their own complaint")
		}
	})

	t.Run("student other filing", func(t *testing.T) {
		s := ComplaintVisibility(makeUser(6, model.RoleStudent, uintPtr(7)))
		if s.Covers(complaint) {
			t.Error("students must not see complaints they did not file")
		}
	})
}

func TestStudentVisibilitySquadSeesNothing(t *testing.T) {
	s := StudentVisibility(makeUser(9, model.RoleSquad, uintPtr(7)))
	if !s.None {
		t.Error("squad members have no student roster access")
	}
}

func TestFeedbackVisibility(t *testing.T) {
	if s := FeedbackVisibility(makeUser(1, model.RoleAdmin, nil)); !s.All {
		t.Error("admin should see all feedback")
	}
	if s := FeedbackVisibility(makeUser(2, model.RolePrincipal, uintPtr(3))); s.CollegeID == nil || *s.CollegeID != 3 {
		t.Error("principal feedback scope should be college-bound")
	}
	if s := FeedbackVisibility(makeUser(4, model.RoleStudent, uintPtr(3))); s.OwnerID == nil || *s.OwnerID != 4 {
		t.Error("student feedback scope should be self-bound")
	}
}
