package repository

import (
	"github.com/civicdocs/formportal/internal/db"
	"github.com/civicdocs/formportal/internal/models"
)

const UsersCollection = "_fp_users"

type UserRepo struct {
	pool *db.Pool
}

func NewUserRepo(pool *db.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) EnsureIndexes() error {
	c := r.pool.Get()
	return c.CreateUniqueIndex(UsersCollection, "email")
}

func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(UsersCollection, map[string]any{"email": email})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.User](doc)
}

func (r *UserRepo) FindByID(id string) (*models.User, error) {
	c := r.pool.Get()
	doc, err := c.FindOne(UsersCollection, map[string]any{"_id": toNumericID(id)})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}
	return fromDoc[models.User](doc)
}

func (r *UserRepo) Create(user *models.User) (string, error) {
	c := r.pool.Get()
	result, err := c.Insert(UsersCollection, toDoc(user))
	if err != nil {
		return "", err
	}
	return extractID(result), nil
}
