package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/student-manager/internal/application"
	"github.com/oksasatya/student-manager/internal/domain/entity"
	"github.com/oksasatya/student-manager/pkg/apperror"
	"github.com/oksasatya/student-manager/pkg/response"
	"github.com/oksasatya/student-manager/pkg/validation"
)

const dateLayout = "2006-01-02"

type signUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Secret   string `json:"secret"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type studentRequest struct {
	FirstName        string `json:"firstName" binding:"required"`
	LastName         string `json:"lastName" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Phone            string `json:"phone" binding:"required"`
	Course           string `json:"course" binding:"required"`
	EnrollmentNumber string `json:"enrollmentNumber" binding:"required"`
	AdmissionDate    string `json:"admissionDate" binding:"required,datetime=2006-01-02"`
}

// signUpUserRequest carries the student record under "studentDetails";
// "student" is accepted as an alias.
type signUpUserRequest struct {
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	Password       string          `json:"password" binding:"required"`
	StudentDetails *studentRequest `json:"studentDetails"`
	Student        *studentRequest `json:"student"`
}

func (r *signUpUserRequest) newProfile() (application.NewProfile, error) {
	switch {
	case r.StudentDetails != nil:
		return r.StudentDetails.toNewProfile("studentDetails")
	case r.Student != nil:
		return r.Student.toNewProfile("student")
	}
	return application.NewProfile{}, apperror.Field("studentDetails", "is required")
}

func (r *studentRequest) toNewProfile(key string) (application.NewProfile, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(r.AdmissionDate))
	if err != nil {
		return application.NewProfile{}, apperror.Field(key+".admissionDate", "must be a date in YYYY-MM-DD format")
	}
	return application.NewProfile{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Course:           r.Course,
		EnrollmentNumber: r.EnrollmentNumber,
		AdmissionDate:    d,
	}, nil
}

type studentPatchRequest struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Phone            *string `json:"phone"`
	Course           *string `json:"course"`
	EnrollmentNumber *string `json:"enrollmentNumber"`
	AdmissionDate    *string `json:"admissionDate" binding:"omitempty,datetime=2006-01-02"`
}

func (r *studentPatchRequest) toPatch() (*entity.ProfilePatch, error) {
	if r == nil {
		return nil, nil
	}
	p := &entity.ProfilePatch{
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		Course:           r.Course,
		EnrollmentNumber: r.EnrollmentNumber,
	}
	if r.AdmissionDate != nil {
		d, err := time.Parse(dateLayout, strings.TrimSpace(*r.AdmissionDate))
		if err != nil {
			return nil, apperror.Field("student.admissionDate", "must be a date in YYYY-MM-DD format")
		}
		p.AdmissionDate = &d
	}
	return p, nil
}

// studentSelfRequest is the body of PATCH /users/:id: the account name and
// password at the top level, profile fields nested under "student". Email,
// course, enrollment number and admission date are managed by
// administrators.
type studentSelfRequest struct {
	Name            *string             `json:"name"`
	CurrentPassword *string             `json:"currentPassword"`
	Password        *string             `json:"password"`
	Student         *studentSelfProfile `json:"student"`
}

type studentSelfProfile struct {
	FirstName        *string `json:"firstName"`
	LastName         *string `json:"lastName"`
	Phone            *string `json:"phone"`
	Email            *string `json:"email"`
	Course           *string `json:"course"`
	EnrollmentNumber *string `json:"enrollmentNumber"`
	AdmissionDate    *string `json:"admissionDate"`
}

func (r *studentSelfRequest) toUpdate() (application.StudentSelfUpdate, error) {
	in := application.StudentSelfUpdate{
		Name:     r.Name,
		Password: passwordUpdate(r.CurrentPassword, r.Password),
	}
	st := r.Student
	if st == nil {
		return in, nil
	}
	locked := map[string]string{}
	for field, v := range map[string]*string{
		"student.email":            st.Email,
		"student.course":           st.Course,
		"student.enrollmentNumber": st.EnrollmentNumber,
		"student.admissionDate":    st.AdmissionDate,
	} {
		if v != nil {
			locked[field] = "can only be changed by an administrator"
		}
	}
	if len(locked) > 0 {
		return application.StudentSelfUpdate{}, apperror.Validation("validation failed", locked)
	}
	in.FirstName, in.LastName, in.Phone = st.FirstName, st.LastName, st.Phone
	return in, nil
}

type adminSelfRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email" binding:"omitempty,email"`
	CurrentPassword *string `json:"currentPassword"`
	Password        *string `json:"password"`
}

type adminUpdateStudentRequest struct {
	Name    *string              `json:"name"`
	Email   *string              `json:"email" binding:"omitempty,email"`
	Student *studentPatchRequest `json:"student"`
}

func passwordUpdate(current, next *string) *application.PasswordUpdate {
	if next == nil {
		return nil
	}
	pu := &application.PasswordUpdate{New: *next}
	if current != nil {
		pu.Current = *current
	}
	return pu
}

// bind decodes the JSON body into req, answering 400 on failure.
func bind(c *gin.Context, req any, logger *logrus.Logger) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.FromError(c, validation.FromBinding(err), logger)
		return false
	}
	return true
}

func fail(c *gin.Context, err error, logger *logrus.Logger) {
	response.FromError(c, err, logger)
}

func ok[T any](c *gin.Context, data T, message string) {
	response.Success(c, http.StatusOK, data, message, nil)
}
