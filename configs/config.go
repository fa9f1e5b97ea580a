package configs

import "github.com/go-playground/validator/v10"

type Configs struct {
	Env      Env
	Db       Db
	LocalDb  LocalDb
	Validate *validator.Validate
}

func NewConfigs(env Env, db Db, localDb LocalDb) Configs {
	return Configs{
		Env:      env,
		Db:       db,
		LocalDb:  localDb,
		Validate: NewValidate(),
	}
}

func NewValidate() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}
