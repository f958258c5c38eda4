package entity

// PermissionSet is the full set of student capabilities grantable to a
// staff member. The backend treats an omitted field as false, so the zero
// value is the fail-closed default.
type PermissionSet struct {
	CreateStudent bool `json:"createStudent"`
	EditStudent   bool `json:"editStudent"`
	ViewStudent   bool `json:"viewStudent"`
	DeleteStudent bool `json:"deleteStudent"`
}

func (p PermissionSet) AllGranted() bool {
	return p.CreateStudent && p.EditStudent && p.ViewStudent && p.DeleteStudent
}

func (p PermissionSet) GrantedCount() int {
	count := 0

	for _, granted := range []bool{p.CreateStudent, p.EditStudent, p.ViewStudent, p.DeleteStudent} {
		if granted {
			count++
		}
	}

	return count
}

// Toggled implements the select-all checkbox: if every capability is
// already granted the whole set flips to denied, otherwise to granted.
func (p PermissionSet) Toggled() PermissionSet {
	all := !p.AllGranted()

	return PermissionSet{
		CreateStudent: all,
		EditStudent:   all,
		ViewStudent:   all,
		DeleteStudent: all,
	}
}
