package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"voicetrack/entities"
)

// Repository is the single handle to the entity store. Every method is an
// explicit query returning plain records; nothing is lazy-loaded. Stage
// guards are the *ExistsFor* predicates.
type Repository interface {
	Transaction(ctx context.Context, callback func(ctx context.Context, tx Repository) error, opts ...*sql.TxOptions) error
	AutoMigrate() error

	CreateProject(ctx context.Context, project *entities.Project) error
	GetProjectByName(ctx context.Context, name string) (*entities.Project, error)
	UpdateProjectDescription(ctx context.Context, projectID uint, description string) error
	DeleteProject(ctx context.Context, projectID uint) error

	CreateURL(ctx context.Context, url *entities.URL) error
	GetURL(ctx context.Context, projectID uint, locator string) (*entities.URL, error)
	GetURLsByProject(ctx context.Context, projectID uint) ([]*entities.URL, error)
	UpdateURLMetadata(ctx context.Context, urlID uint, title, author string, viewCount int64) error

	CreateAudioFile(ctx context.Context, audio *entities.AudioFile) error
	GetAudioFileByURL(ctx context.Context, urlID uint) (*entities.AudioFile, error)
	GetAudioFilesByProject(ctx context.Context, projectID uint) ([]*entities.AudioFile, error)

	CreateSegments(ctx context.Context, segments []*entities.Segment) error
	SegmentExistsForAudio(ctx context.Context, audioID uint) (bool, error)
	GetSegmentsByAudio(ctx context.Context, audioID uint) ([]*entities.Segment, error)
	GetSegmentByID(ctx context.Context, segmentID uint) (*entities.Segment, error)

	CreateEmbedding(ctx context.Context, embedding *entities.Embedding) error
	DeleteEmbedding(ctx context.Context, embeddingID uint) error
	EmbeddingExistsForSegment(ctx context.Context, segmentID uint) (bool, error)
	GetEmbeddingByID(ctx context.Context, embeddingID uint) (*entities.Embedding, error)
	GetEmbeddingsBySegment(ctx context.Context, segmentID uint) ([]*entities.Embedding, error)
	GetAllEmbeddings(ctx context.Context) ([]*entities.Embedding, error)

	CreateEmbeddingTimestamp(ctx context.Context, timestamp *entities.EmbeddingTimestamp) error
	GetTimestampsByEmbedding(ctx context.Context, embeddingID uint) ([]*entities.EmbeddingTimestamp, error)
	GetAllEmbeddingTimestamps(ctx context.Context) ([]*entities.EmbeddingTimestamp, error)

	CreateLabel(ctx context.Context, label *entities.LabelName) error
	GetLabelByName(ctx context.Context, name string) (*entities.LabelName, error)
	GetLabelByID(ctx context.Context, labelID uint) (*entities.LabelName, error)
	ListLabels(ctx context.Context) ([]*entities.LabelName, error)
	RenameLabel(ctx context.Context, labelID uint, newName string) error
	CountEmbeddingsByLabel(ctx context.Context, labelID uint) (int64, error)

	CreateEmbeddingLabel(ctx context.Context, embeddingLabel *entities.EmbeddingLabel) error
	EmbeddingLabelExists(ctx context.Context, embeddingID, labelID uint) (bool, error)
	GetEmbeddingLabelsByLabel(ctx context.Context, labelID uint) ([]*entities.EmbeddingLabel, error)
	GetEmbeddingLabelsByEmbedding(ctx context.Context, embeddingID uint) ([]*entities.EmbeddingLabel, error)
	DeleteEmbeddingLabelsBefore(ctx context.Context, embeddingID uint, keepLabelID uint) (int64, error)

	CreateFinalSegment(ctx context.Context, finalSegment *entities.FinalSegment) error
	FinalSegmentExistsForTimestamp(ctx context.Context, timestampID uint) (bool, error)
	GetFinalSegmentByTimestamp(ctx context.Context, timestampID uint) (*entities.FinalSegment, error)
	GetFinalSegmentsByLabel(ctx context.Context, labelID uint) ([]*entities.FinalSegment, error)

	CreateTranscript(ctx context.Context, transcript *entities.Transcript) error
	TranscriptExistsForTimestamp(ctx context.Context, timestampID uint) (bool, error)
	GetTranscriptByTimestamp(ctx context.Context, timestampID uint) (*entities.Transcript, error)
}

type repo struct {
	db *gorm.DB
}

// NewPostgresRepo wraps an already-open postgres connection, keeping the
// raw *sql.DB under gorm.
func NewPostgresRepo(db *sql.DB) (Repository, error) {
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		},
	)
	if err != nil {
		return nil, err
	}
	return &repo{db: gormDB}, nil
}

// NewSQLiteRepo opens a sqlite store at path; ":memory:" gives an
// ephemeral store. Foreign keys must be switched on per connection or
// sqlite ignores the cascade constraints.
func NewSQLiteRepo(path string) (Repository, error) {
	gormDB, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return &repo{db: gormDB}, nil
}

func (r *repo) AutoMigrate() error {
	return r.db.AutoMigrate(
		&entities.Project{},
		&entities.URL{},
		&entities.AudioFile{},
		&entities.Segment{},
		&entities.Embedding{},
		&entities.EmbeddingTimestamp{},
		&entities.LabelName{},
		&entities.EmbeddingLabel{},
		&entities.FinalSegment{},
		&entities.Transcript{},
	)
}

// Transaction runs callback against a transaction-scoped Repository. The
// transaction commits when the callback returns nil and rolls back
// otherwise; no transaction outlives the call.
func (r *repo) Transaction(ctx context.Context, callback func(ctx context.Context, tx Repository) error, opts ...*sql.TxOptions) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return callback(ctx, &repo{db: tx})
	}, opts...)
}

func (r *repo) CreateProject(ctx context.Context, project *entities.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *repo) GetProjectByName(ctx context.Context, name string) (*entities.Project, error) {
	project := &entities.Project{}
	err := r.db.WithContext(ctx).First(project, "project_name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (r *repo) UpdateProjectDescription(ctx context.Context, projectID uint, description string) error {
	return r.db.WithContext(ctx).Model(&entities.Project{}).
		Where("project_id = ?", projectID).
		Update("description", description).Error
}

func (r *repo) DeleteProject(ctx context.Context, projectID uint) error {
	return r.db.WithContext(ctx).Delete(&entities.Project{}, "project_id = ?", projectID).Error
}

func (r *repo) CreateURL(ctx context.Context, url *entities.URL) error {
	return r.db.WithContext(ctx).Create(url).Error
}

func (r *repo) GetURL(ctx context.Context, projectID uint, locator string) (*entities.URL, error) {
	url := &entities.URL{}
	err := r.db.WithContext(ctx).First(url, "project_id = ? AND url = ?", projectID, locator).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return url, nil
}

func (r *repo) GetURLsByProject(ctx context.Context, projectID uint) ([]*entities.URL, error) {
	var urls []*entities.URL
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("url_id ASC").Find(&urls).Error
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *repo) UpdateURLMetadata(ctx context.Context, urlID uint, title, author string, viewCount int64) error {
	updates := map[string]interface{}{
		"title":      title,
		"author":     author,
		"view_count": viewCount,
	}
	return r.db.WithContext(ctx).Model(&entities.URL{}).Where("url_id = ?", urlID).Updates(updates).Error
}

func (r *repo) CreateAudioFile(ctx context.Context, audio *entities.AudioFile) error {
	return r.db.WithContext(ctx).Create(audio).Error
}

func (r *repo) GetAudioFileByURL(ctx context.Context, urlID uint) (*entities.AudioFile, error) {
	audio := &entities.AudioFile{}
	err := r.db.WithContext(ctx).First(audio, "url_id = ?", urlID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return audio, nil
}

func (r *repo) GetAudioFilesByProject(ctx context.Context, projectID uint) ([]*entities.AudioFile, error) {
	var audioFiles []*entities.AudioFile
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("audio_id ASC").Find(&audioFiles).Error
	if err != nil {
		return nil, err
	}
	return audioFiles, nil
}

func (r *repo) CreateSegments(ctx context.Context, segments []*entities.Segment) error {
	return r.db.WithContext(ctx).Create(segments).Error
}

func (r *repo) SegmentExistsForAudio(ctx context.Context, audioID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Segment{}).Where("audio_id = ?", audioID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) GetSegmentsByAudio(ctx context.Context, audioID uint) ([]*entities.Segment, error) {
	var segments []*entities.Segment
	err := r.db.WithContext(ctx).Where("audio_id = ?", audioID).Order("start_time ASC").Find(&segments).Error
	if err != nil {
		return nil, err
	}
	return segments, nil
}

func (r *repo) GetSegmentByID(ctx context.Context, segmentID uint) (*entities.Segment, error) {
	segment := &entities.Segment{}
	err := r.db.WithContext(ctx).First(segment, "segment_id = ?", segmentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return segment, nil
}

func (r *repo) CreateEmbedding(ctx context.Context, embedding *entities.Embedding) error {
	return r.db.WithContext(ctx).Create(embedding).Error
}

func (r *repo) DeleteEmbedding(ctx context.Context, embeddingID uint) error {
	return r.db.WithContext(ctx).Delete(&entities.Embedding{}, "embedding_id = ?", embeddingID).Error
}

func (r *repo) EmbeddingExistsForSegment(ctx context.Context, segmentID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Embedding{}).Where("segment_id = ?", segmentID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) GetEmbeddingByID(ctx context.Context, embeddingID uint) (*entities.Embedding, error) {
	embedding := &entities.Embedding{}
	err := r.db.WithContext(ctx).First(embedding, "embedding_id = ?", embeddingID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return embedding, nil
}

func (r *repo) GetEmbeddingsBySegment(ctx context.Context, segmentID uint) ([]*entities.Embedding, error) {
	var embeddings []*entities.Embedding
	err := r.db.WithContext(ctx).Where("segment_id = ?", segmentID).Order("embedding_id ASC").Find(&embeddings).Error
	if err != nil {
		return nil, err
	}
	return embeddings, nil
}

// GetAllEmbeddings returns every embedding in the store ordered by id, the
// clustering input order.
func (r *repo) GetAllEmbeddings(ctx context.Context) ([]*entities.Embedding, error) {
	var embeddings []*entities.Embedding
	err := r.db.WithContext(ctx).Order("embedding_id ASC").Find(&embeddings).Error
	if err != nil {
		return nil, err
	}
	return embeddings, nil
}

func (r *repo) CreateEmbeddingTimestamp(ctx context.Context, timestamp *entities.EmbeddingTimestamp) error {
	return r.db.WithContext(ctx).Create(timestamp).Error
}

func (r *repo) GetTimestampsByEmbedding(ctx context.Context, embeddingID uint) ([]*entities.EmbeddingTimestamp, error) {
	var timestamps []*entities.EmbeddingTimestamp
	err := r.db.WithContext(ctx).Where("embedding_id = ?", embeddingID).Order("start_time ASC").Find(&timestamps).Error
	if err != nil {
		return nil, err
	}
	return timestamps, nil
}

func (r *repo) GetAllEmbeddingTimestamps(ctx context.Context) ([]*entities.EmbeddingTimestamp, error) {
	var timestamps []*entities.EmbeddingTimestamp
	err := r.db.WithContext(ctx).Order("timestamp_id ASC").Find(&timestamps).Error
	if err != nil {
		return nil, err
	}
	return timestamps, nil
}

func (r *repo) CreateLabel(ctx context.Context, label *entities.LabelName) error {
	return r.db.WithContext(ctx).Create(label).Error
}

func (r *repo) GetLabelByName(ctx context.Context, name string) (*entities.LabelName, error) {
	label := &entities.LabelName{}
	err := r.db.WithContext(ctx).First(label, "label_name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (r *repo) GetLabelByID(ctx context.Context, labelID uint) (*entities.LabelName, error) {
	label := &entities.LabelName{}
	err := r.db.WithContext(ctx).First(label, "label_id = ?", labelID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return label, nil
}

func (r *repo) ListLabels(ctx context.Context) ([]*entities.LabelName, error) {
	var labels []*entities.LabelName
	err := r.db.WithContext(ctx).Order("label_id ASC").Find(&labels).Error
	if err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *repo) RenameLabel(ctx context.Context, labelID uint, newName string) error {
	return r.db.WithContext(ctx).Model(&entities.LabelName{}).
		Where("label_id = ?", labelID).
		Update("label_name", newName).Error
}

func (r *repo) CountEmbeddingsByLabel(ctx context.Context, labelID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.EmbeddingLabel{}).Where("label_id = ?", labelID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) CreateEmbeddingLabel(ctx context.Context, embeddingLabel *entities.EmbeddingLabel) error {
	return r.db.WithContext(ctx).Create(embeddingLabel).Error
}

func (r *repo) EmbeddingLabelExists(ctx context.Context, embeddingID, labelID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.EmbeddingLabel{}).
		Where("embedding_id = ? AND label_id = ?", embeddingID, labelID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) GetEmbeddingLabelsByLabel(ctx context.Context, labelID uint) ([]*entities.EmbeddingLabel, error) {
	var embeddingLabels []*entities.EmbeddingLabel
	err := r.db.WithContext(ctx).Where("label_id = ?", labelID).Order("embedding_label_id ASC").Find(&embeddingLabels).Error
	if err != nil {
		return nil, err
	}
	return embeddingLabels, nil
}

func (r *repo) GetEmbeddingLabelsByEmbedding(ctx context.Context, embeddingID uint) ([]*entities.EmbeddingLabel, error) {
	var embeddingLabels []*entities.EmbeddingLabel
	err := r.db.WithContext(ctx).Where("embedding_id = ?", embeddingID).Order("label_id ASC").Find(&embeddingLabels).Error
	if err != nil {
		return nil, err
	}
	return embeddingLabels, nil
}

// DeleteEmbeddingLabelsBefore removes every label assignment of an
// embedding except keepLabelID. Only the explicit reconciliation path uses
// it; clustering itself never deletes assignments.
func (r *repo) DeleteEmbeddingLabelsBefore(ctx context.Context, embeddingID uint, keepLabelID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("embedding_id = ? AND label_id <> ?", embeddingID, keepLabelID).
		Delete(&entities.EmbeddingLabel{})
	return result.RowsAffected, result.Error
}

func (r *repo) CreateFinalSegment(ctx context.Context, finalSegment *entities.FinalSegment) error {
	return r.db.WithContext(ctx).Create(finalSegment).Error
}

func (r *repo) FinalSegmentExistsForTimestamp(ctx context.Context, timestampID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.FinalSegment{}).Where("timestamp_id = ?", timestampID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) GetFinalSegmentByTimestamp(ctx context.Context, timestampID uint) (*entities.FinalSegment, error) {
	finalSegment := &entities.FinalSegment{}
	err := r.db.WithContext(ctx).First(finalSegment, "timestamp_id = ?", timestampID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return finalSegment, nil
}

func (r *repo) GetFinalSegmentsByLabel(ctx context.Context, labelID uint) ([]*entities.FinalSegment, error) {
	var finalSegments []*entities.FinalSegment
	err := r.db.WithContext(ctx).Where("label_id = ?", labelID).Order("final_segment_id ASC").Find(&finalSegments).Error
	if err != nil {
		return nil, err
	}
	return finalSegments, nil
}

func (r *repo) CreateTranscript(ctx context.Context, transcript *entities.Transcript) error {
	return r.db.WithContext(ctx).Create(transcript).Error
}

func (r *repo) TranscriptExistsForTimestamp(ctx context.Context, timestampID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.Transcript{}).Where("timestamp_id = ?", timestampID).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) GetTranscriptByTimestamp(ctx context.Context, timestampID uint) (*entities.Transcript, error) {
	transcript := &entities.Transcript{}
	err := r.db.WithContext(ctx).First(transcript, "timestamp_id = ?", timestampID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return transcript, nil
}
