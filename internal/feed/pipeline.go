package feed

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"gotweet/internal/common"
)

// StageKind tags a pipeline Stage. Each kind carries exactly one payload.
type StageKind int

const (
	StageMatch StageKind = iota
	StageJoin
	StageComputeField
	StageProject
	StageSort
	StageSkip
	StageLimit
)

func (k StageKind) String() string {
	switch k {
	case StageMatch:
		return "match"
	case StageJoin:
		return "join"
	case StageComputeField:
		return "compute_field"
	case StageProject:
		return "project"
	case StageSort:
		return "sort"
	case StageSkip:
		return "skip"
	case StageLimit:
		return "limit"
	}
	return fmt.Sprintf("stage(%d)", int(k))
}

// Source names the collection a Join reads from. The repository maps it to a real name.
type Source int

const (
	SourceUsers Source = iota
	SourceHashtags
)

// Field names the pipeline refers to.
const (
	fieldID        = "_id"
	fieldUserID    = "user_id"
	fieldHashtags  = "hashtags"
	fieldMentions  = "mentions"
	fieldCreatedAt = "created_at"
	fieldOwner     = "tweet_owner"
)

// MatchSpec filters tweets. Zero-valued fields do not constrain.
type MatchSpec struct {
	IDs        []primitive.ObjectID
	TextSearch string
	AuthorIn   []primitive.ObjectID
	ParentID   *primitive.ObjectID
	Kind       *common.TweetKind
	MediaTypes []common.MediaType

	// VisibleTo applies the audience check against the author joined as tweet_owner.
	VisibleTo *Viewer
}

// JoinSpec looks up documents in From whose ForeignField equals LocalField.
// With Unwind the single joined document replaces the array and tweets without a match drop out.
type JoinSpec struct {
	From         Source
	LocalField   string
	ForeignField string
	As           string
	Unwind       bool
}

// ComputeSpec sets Field to the elements of From reduced to the Keep fields.
type ComputeSpec struct {
	Field string
	From  string
	Keep  []string
}

type ProjectSpec struct {
	Exclude []string
}

type SortKey struct {
	Field string
	Desc  bool
}

type Stage struct {
	Kind    StageKind
	Match   *MatchSpec
	Join    *JoinSpec
	Compute *ComputeSpec
	Project *ProjectSpec
	Sort    []SortKey
	N       int64
}

func Match(spec MatchSpec) Stage     { return Stage{Kind: StageMatch, Match: &spec} }
func Join(spec JoinSpec) Stage       { return Stage{Kind: StageJoin, Join: &spec} }
func Compute(spec ComputeSpec) Stage { return Stage{Kind: StageComputeField, Compute: &spec} }
func Exclude(fields ...string) Stage {
	return Stage{Kind: StageProject, Project: &ProjectSpec{Exclude: fields}}
}
func SortBy(keys ...SortKey) Stage { return Stage{Kind: StageSort, Sort: keys} }
func Skip(n int64) Stage           { return Stage{Kind: StageSkip, N: n} }
func Limit(n int64) Stage          { return Stage{Kind: StageLimit, N: n} }

// Validate checks that the payload matches the tag.
func (s Stage) Validate() error {
	var ok bool
	switch s.Kind {
	case StageMatch:
		ok = s.Match != nil
	case StageJoin:
		ok = s.Join != nil && s.Join.LocalField != "" && s.Join.ForeignField != "" && s.Join.As != ""
	case StageComputeField:
		ok = s.Compute != nil && s.Compute.Field != "" && s.Compute.From != ""
	case StageProject:
		ok = s.Project != nil && len(s.Project.Exclude) > 0
	case StageSort:
		ok = len(s.Sort) > 0
	case StageSkip:
		ok = s.N >= 0
	case StageLimit:
		ok = s.N > 0
	}
	if !ok {
		return fmt.Errorf("malformed %s stage", s.Kind)
	}
	return nil
}

// Pipeline is an ordered list of stages.
type Pipeline []Stage

func (p Pipeline) Validate() error {
	for i, s := range p {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("stage %d: %w", i, err)
		}
	}
	return nil
}

// IsMatchOnly reports whether p can be answered by a plain filtered count.
func (p Pipeline) IsMatchOnly() bool {
	for _, s := range p {
		if s.Kind != StageMatch || s.Match.VisibleTo != nil {
			return false
		}
	}
	return true
}

// Then returns a new pipeline; p is never appended to in place.
func (p Pipeline) Then(stages ...Stage) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

// newestFirst is the stable order every listing paginates over.
var newestFirst = SortBy(
	SortKey{Field: fieldCreatedAt, Desc: true},
	SortKey{Field: fieldID, Desc: true},
)

// joinOwner brings the author in as tweet_owner for the visibility check.
var joinOwner = Join(JoinSpec{
	From:         SourceUsers,
	LocalField:   fieldUserID,
	ForeignField: fieldID,
	As:           fieldOwner,
	Unwind:       true,
})

// hydrate replaces hashtag and mention ids with documents and drops the joined author.
func hydrate() []Stage {
	return []Stage{
		Join(JoinSpec{From: SourceHashtags, LocalField: fieldHashtags, ForeignField: fieldID, As: fieldHashtags}),
		Join(JoinSpec{From: SourceUsers, LocalField: fieldMentions, ForeignField: fieldID, As: fieldMentions}),
		Compute(ComputeSpec{Field: fieldMentions, From: fieldMentions, Keep: []string{"_id", "name", "username", "email"}}),
		Exclude(fieldOwner),
	}
}

// filterStages is the candidate set of a query: the match, then the audience check when asked for.
func filterStages(match MatchSpec, viewer *Viewer) Pipeline {
	if viewer == nil {
		return Pipeline{Match(match)}
	}
	return Pipeline{Match(match), joinOwner, Match(MatchSpec{VisibleTo: viewer})}
}

// pageStages orders, windows and hydrates the filtered set.
func pageStages(filter Pipeline, offset, limit int64) Pipeline {
	return filter.Then(newestFirst, Skip(offset), Limit(limit)).Then(hydrate()...)
}
