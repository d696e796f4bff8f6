package memorials

// IsOwner reports whether the account created this memorial.
func IsOwner(m *Memorial, userID uint) bool {
	return userID != 0 && m.UserID == userID
}

// CanEdit reports whether the account may modify this memorial: the
// owner always can, a contributor only with the can_edit flag.
func CanEdit(m *Memorial, userID uint) bool {
	if IsOwner(m, userID) {
		return true
	}
	for _, c := range m.Contributors {
		if c.UserID == userID && c.CanEdit {
			return true
		}
	}
	return false
}

// CanViewPrivate reports whether the account may see a private
// memorial: the owner and any contributor (editing or not).
func CanViewPrivate(m *Memorial, userID uint) bool {
	if IsOwner(m, userID) {
		return true
	}
	for _, c := range m.Contributors {
		if c.UserID == userID {
			return true
		}
	}
	return false
}
