package model

import "testing"

func anonymousComplaint() *Complaint {
	collegeID := uint(7)
	return &Complaint{
		ID:          1,
		StudentID:   5,
		CollegeID:   &collegeID,
		Title:       "Hazing in hostel block C",
		Status:      StatusPending,
		IsAnonymous: true,
		Student: &User{
			ID:       5,
			Username: "ravi_kumar",
			Role:     RoleStudent,
		},
	}
}

func TestAnonymousComplaintHidesFilerFromSquad(t *testing.T) {
	c := anonymousComplaint()
	viewer := &User{ID: 9, Role: RoleSquad}

	res := c.ToResponse(viewer)
	if res.StudentName != AnonymousStudentName {
		t.Errorf("student name = %q, want %q", res.StudentName, AnonymousStudentName)
	}
	if res.Student != nil {
		t.Error("student block must be withheld from squad")
	}
}

func TestAnonymousComplaintHidesFilerFromPrincipal(t *testing.T) {
	c := anonymousComplaint()
	viewer := &User{ID: 3, Role: RolePrincipal}

	res := c.ToResponse(viewer)
	if res.StudentName != AnonymousStudentName || res.Student != nil {
		t.Error("principal must not see the filer of an anonymous complaint")
	}
}

func TestAnonymousComplaintVisibleToAdmin(t *testing.T) {
	c := anonymousComplaint()
	viewer := &User{ID: 1, Role: RoleAdmin}

	res := c.ToResponse(viewer)
	if res.StudentName != "ravi_kumar" {
		t.Errorf("admin should see the true filer, got %q", res.StudentName)
	}
	if res.Student == nil {
		t.Error("admin should get the full student block")
	}
}

func TestAnonymousComplaintVisibleToFiler(t *testing.T) {
	c := anonymousComplaint()
	viewer := &User{ID: 5, Role: RoleStudent}

	res := c.ToResponse(viewer)
	if res.StudentName != "ravi_kumar" {
		t.Error("the filer should always see their own identity")
	}
}

func TestNonAnonymousComplaintShowsFiler(t *testing.T) {
	c := anonymousComplaint()
	c.IsAnonymous = false
	viewer := &User{ID: 9, Role: RoleSquad}

	res := c.ToResponse(viewer)
	if res.StudentName != "ravi_kumar" {
		t.Error("non-anonymous complaints show the filer to everyone")
	}
}

func TestIdentityVisibleToNilViewer(t *testing.T) {
	c := anonymousComplaint()
	if c.IdentityVisibleTo(nil) {
		t.Error("nil viewer must never see the filer")
	}
}
