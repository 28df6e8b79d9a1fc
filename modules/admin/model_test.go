package admin_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eventreport/backend/modules/admin"
)

func TestCreateInputValidate(t *testing.T) {
	t.Parallel()

	valid := func() admin.CreateInput {
		return admin.CreateInput{
			FirstName: "John",
			LastName:  "Admin",
			Email:     "john@example.com",
			Phone:     "0712345678",
		}
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing first name", func(t *testing.T) {
		t.Parallel()
		in := valid()
		in.FirstName = ""
		assert.ErrorIs(t, in.Validate(), admin.ErrFirstNameRequired)
	})

	t.Run("missing last name", func(t *testing.T) {
		t.Parallel()
		in := valid()
		in.LastName = " "
		assert.ErrorIs(t, in.Validate(), admin.ErrLastNameRequired)
	})

	t.Run("bad email", func(t *testing.T) {
		t.Parallel()
		in := valid()
		in.Email = "nope"
		assert.ErrorIs(t, in.Validate(), admin.ErrInvalidEmail)
	})

	t.Run("missing phone", func(t *testing.T) {
		t.Parallel()
		in := valid()
		in.Phone = ""
		assert.ErrorIs(t, in.Validate(), admin.ErrPhoneRequired)
	})
}

func TestFullName(t *testing.T) {
	t.Parallel()
	a := admin.Admin{FirstName: "John", LastName: "Admin"}
	assert.Equal(t, "John Admin", a.FullName())

	b := admin.Admin{FirstName: "Cher"}
	assert.Equal(t, "Cher", b.FullName())
}
