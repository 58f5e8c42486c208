package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MananRajppout/newamplify/internal/common"
	"github.com/MananRajppout/newamplify/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    UserRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewUserRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func (suite *UserRepoTestSuite) sampleUser() *models.User {
	return &models.User{
		ID:                suite.userID,
		FirstName:         "Grace",
		LastName:          "Hopper",
		Email:             "grace@example.com",
		PhoneNumber:       "5550199",
		CompanyName:       "Navy Research",
		PasswordHash:      "$2a$10$abcdefghijklmnopqrstuv",
		Role:              "Admin",
		Status:            models.StatusActive,
		IsEmailVerified:   false,
		IsDeleted:         false,
		CreatedBy:         models.CreatedBySelf,
		TermsAccepted:     true,
		TermsAcceptedTime: time.Now(),
		Credits:           0,
	}
}

func (suite *UserRepoTestSuite) userRows(user *models.User) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "first_name", "last_name", "email", "phone_number", "company_name", "password_hash",
		"role", "status", "is_email_verified", "is_deleted", "created_by", "terms_accepted", "terms_accepted_time",
		"credits", "stripe_customer_id", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.CompanyName, user.PasswordHash,
		user.Role, user.Status, user.IsEmailVerified, user.IsDeleted, user.CreatedBy, user.TermsAccepted, user.TermsAcceptedTime,
		user.Credits, user.StripeCustomerID, time.Now(), time.Now(),
	)
}

func (suite *UserRepoTestSuite) TestCreate_Success() {
	user := suite.sampleUser()

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.CompanyName,
			user.PasswordHash, user.Role, user.Status, user.IsEmailVerified, user.IsDeleted,
			user.CreatedBy, user.TermsAccepted, user.TermsAcceptedTime, user.Credits).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestCreate_DatabaseError() {
	user := suite.sampleUser()

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.CompanyName,
			user.PasswordHash, user.Role, user.Status, user.IsEmailVerified, user.IsDeleted,
			user.CreatedBy, user.TermsAccepted, user.TermsAcceptedTime, user.Credits).
		WillReturnError(errors.New("database connection failed"))

	err := suite.repo.Create(suite.context, user)
	assert.Error(suite.T(), err)
	assert.Contains(suite.T(), err.Error(), "database connection failed")
}

func (suite *UserRepoTestSuite) TestGetByID_Success() {
	user := suite.sampleUser()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnRows(suite.userRows(user))

	result, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, result.ID)
	assert.Equal(suite.T(), user.Email, result.Email)
	assert.Equal(suite.T(), user.PasswordHash, result.PasswordHash)
	assert.Nil(suite.T(), result.StripeCustomerID)
}

func (suite *UserRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByID(suite.context, suite.userID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *UserRepoTestSuite) TestGetByEmail_Success() {
	user := suite.sampleUser()

	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs(user.Email).
		WillReturnRows(suite.userRows(user))

	result, err := suite.repo.GetByEmail(suite.context, user.Email)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), user.ID, result.ID)
}

func (suite *UserRepoTestSuite) TestGetByEmail_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetByEmail(suite.context, "ghost@example.com")
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *UserRepoTestSuite) TestExistsByEmail_Taken() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs("grace@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(1))

	taken, err := suite.repo.ExistsByEmail(suite.context, "grace@example.com")
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), taken)
}

func (suite *UserRepoTestSuite) TestExistsByEmail_Free() {
	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

	taken, err := suite.repo.ExistsByEmail(suite.context, "ghost@example.com")
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), taken)
}

func (suite *UserRepoTestSuite) TestUpdateProfile_Success() {
	user := suite.sampleUser()

	suite.mock.ExpectExec(`
		UPDATE users
		SET first_name = \$2, last_name = \$3, phone_number = \$4, company_name = \$5, role = \$6,
			status = \$7, updated_at = NOW\(\)
		WHERE id = \$1
	`).WithArgs(user.ID, user.FirstName, user.LastName, user.PhoneNumber, user.CompanyName, user.Role, user.Status).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateProfile(suite.context, user)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestUpdateProfile_NotFound() {
	user := suite.sampleUser()

	suite.mock.ExpectExec(`
		UPDATE users
		SET first_name = \$2, last_name = \$3, phone_number = \$4, company_name = \$5, role = \$6,
			status = \$7, updated_at = NOW\(\)
		WHERE id = \$1
	`).WithArgs(user.ID, user.FirstName, user.LastName, user.PhoneNumber, user.CompanyName, user.Role, user.Status).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateProfile(suite.context, user)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *UserRepoTestSuite) TestUpdatePasswordHash_Success() {
	newHash := "$2a$10$replacementhashvalue"

	suite.mock.ExpectExec(`UPDATE users SET password_hash = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID, newHash).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdatePasswordHash(suite.context, suite.userID, newHash)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestUpdatePasswordHash_NotFound() {
	suite.mock.ExpectExec(`UPDATE users SET password_hash = \$2, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID, "$2a$10$replacementhashvalue").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdatePasswordHash(suite.context, suite.userID, "$2a$10$replacementhashvalue")
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *UserRepoTestSuite) TestSetEmailVerified_Success() {
	suite.mock.ExpectExec(`UPDATE users SET is_email_verified = TRUE, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SetEmailVerified(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestSetEmailVerified_NotFound() {
	suite.mock.ExpectExec(`UPDATE users SET is_email_verified = TRUE, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SetEmailVerified(suite.context, suite.userID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *UserRepoTestSuite) TestSoftDelete_Success() {
	suite.mock.ExpectExec(`UPDATE users SET is_deleted = TRUE, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.SoftDelete(suite.context, suite.userID)
	assert.NoError(suite.T(), err)
}

func (suite *UserRepoTestSuite) TestSoftDelete_NotFound() {
	suite.mock.ExpectExec(`UPDATE users SET is_deleted = TRUE, updated_at = NOW\(\) WHERE id = \$1`).
		WithArgs(suite.userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SoftDelete(suite.context, suite.userID)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *UserRepoTestSuite) TestContextCancellation() {
	cancelledCtx, cancel := context.WithCancel(suite.context)
	cancel()

	user := suite.sampleUser()

	suite.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(user.ID, user.FirstName, user.LastName, user.Email, user.PhoneNumber, user.CompanyName,
			user.PasswordHash, user.Role, user.Status, user.IsEmailVerified, user.IsDeleted,
			user.CreatedBy, user.TermsAccepted, user.TermsAcceptedTime, user.Credits).
		WillReturnError(context.Canceled)

	err := suite.repo.Create(cancelledCtx, user)
	assert.Error(suite.T(), err)
	assert.ErrorIs(suite.T(), err, context.Canceled)
}
