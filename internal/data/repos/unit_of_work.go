package repos

import (
	"context"

	"gorm.io/gorm"

	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

// UnitOfWork groups every repository over one change set. Writes staged
// through any repository are applied together, in staging order, by
// SaveChanges. A UnitOfWork serves a single request.
type UnitOfWork struct {
	Grades                 GradeRepo
	Subjects               SubjectRepo
	Tags                   TagRepo
	Resources              ResourceRepo
	ResourceTags           ResourceTagRepo
	ResourceVotes          ResourceVoteRepo
	LearningModules        LearningModuleRepo
	LearningModuleTags     LearningModuleTagRepo
	LearningModuleVotes    LearningModuleVoteRepo
	ResourceModuleMappings ResourceModuleMappingRepo
	UserResources          UserResourceRepo
	UserLearningModules    UserLearningModuleRepo
	UserSettings           UserSettingsRepo
	TabConfigurations      TabConfigurationRepo

	db      *gorm.DB
	changes *changeSet
	log     *logger.Logger
}

func NewUnitOfWork(db *gorm.DB, baseLog *logger.Logger) *UnitOfWork {
	cs := &changeSet{}
	return &UnitOfWork{
		Grades:                 NewGradeRepo(db, cs, baseLog),
		Subjects:               NewSubjectRepo(db, cs, baseLog),
		Tags:                   NewTagRepo(db, cs, baseLog),
		Resources:              NewResourceRepo(db, cs, baseLog),
		ResourceTags:           NewResourceTagRepo(db, cs, baseLog),
		ResourceVotes:          NewResourceVoteRepo(db, cs, baseLog),
		LearningModules:        NewLearningModuleRepo(db, cs, baseLog),
		LearningModuleTags:     NewLearningModuleTagRepo(db, cs, baseLog),
		LearningModuleVotes:    NewLearningModuleVoteRepo(db, cs, baseLog),
		ResourceModuleMappings: NewResourceModuleMappingRepo(db, cs, baseLog),
		UserResources:          NewUserResourceRepo(db, cs, baseLog),
		UserLearningModules:    NewUserLearningModuleRepo(db, cs, baseLog),
		UserSettings:           NewUserSettingsRepo(db, cs, baseLog),
		TabConfigurations:      NewTabConfigurationRepo(db, cs, baseLog),
		db:                     db,
		changes:                cs,
		log:                    baseLog.With("component", "UnitOfWork"),
	}
}

// Pending reports how many writes are staged.
func (u *UnitOfWork) Pending() int {
	return u.changes.len()
}

// SaveChanges applies every staged write inside one transaction. On failure
// nothing is persisted and the staged writes are discarded; integrity
// violations come back as *ConstraintError.
func (u *UnitOfWork) SaveChanges(ctx context.Context) error {
	if u.changes.len() == 0 {
		return nil
	}
	counts := u.changes.counts()
	pending := u.changes.drain()
	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range pending {
			if err := c.apply(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		err = wrapCommitError(err)
		u.log.Warn("SaveChanges failed", "error", err, "changes", len(pending))
		return err
	}
	u.log.Debug("SaveChanges committed",
		"adds", counts[changeAdd],
		"updates", counts[changeUpdate],
		"deletes", counts[changeDelete],
	)
	return nil
}

// UnitOfWorkFactory opens a fresh UnitOfWork per request.
type UnitOfWorkFactory interface {
	New() *UnitOfWork
}

type gormUnitOfWorkFactory struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUnitOfWorkFactory(db *gorm.DB, baseLog *logger.Logger) UnitOfWorkFactory {
	return &gormUnitOfWorkFactory{db: db, log: baseLog}
}

func (f *gormUnitOfWorkFactory) New() *UnitOfWork {
	return NewUnitOfWork(f.db, f.log)
}
