package feed

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gotweet/internal/common"
)

// compile turns p into an aggregation pipeline for the tweets collection.
func (r *FeedRepository) compile(p Pipeline) (mongo.Pipeline, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make(mongo.Pipeline, 0, len(p)+1)
	for _, s := range p {
		switch s.Kind {
		case StageMatch:
			out = append(out, bson.D{{Key: "$match", Value: matchFilter(*s.Match)}})
		case StageJoin:
			from, err := r.source(s.Join.From)
			if err != nil {
				return nil, err
			}
			out = append(out, bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: from},
				{Key: "localField", Value: s.Join.LocalField},
				{Key: "foreignField", Value: s.Join.ForeignField},
				{Key: "as", Value: s.Join.As},
			}}})
			if s.Join.Unwind {
				out = append(out, bson.D{{Key: "$unwind", Value: "$" + s.Join.As}})
			}
		case StageComputeField:
			out = append(out, bson.D{{Key: "$addFields", Value: bson.D{{Key: s.Compute.Field, Value: computeMap(*s.Compute)}}}})
		case StageProject:
			proj := bson.D{}
			for _, f := range s.Project.Exclude {
				proj = append(proj, bson.E{Key: f, Value: 0})
			}
			out = append(out, bson.D{{Key: "$project", Value: proj}})
		case StageSort:
			keys := bson.D{}
			for _, k := range s.Sort {
				dir := 1
				if k.Desc {
					dir = -1
				}
				keys = append(keys, bson.E{Key: k.Field, Value: dir})
			}
			out = append(out, bson.D{{Key: "$sort", Value: keys}})
		case StageSkip:
			out = append(out, bson.D{{Key: "$skip", Value: s.N}})
		case StageLimit:
			out = append(out, bson.D{{Key: "$limit", Value: s.N}})
		}
	}
	return out, nil
}

func (r *FeedRepository) source(s Source) (string, error) {
	names := r.mc.Names()
	switch s {
	case SourceUsers:
		return names.Users, nil
	case SourceHashtags:
		return names.Hashtags, nil
	}
	return "", fmt.Errorf("unknown join source %d", s)
}

// matchFilter ANDs every constraint set on spec.
func matchFilter(spec MatchSpec) bson.D {
	f := bson.D{}
	if spec.TextSearch != "" {
		f = append(f, bson.E{Key: "$text", Value: bson.M{"$search": spec.TextSearch}})
	}
	if len(spec.IDs) > 0 {
		f = append(f, bson.E{Key: "_id", Value: bson.M{"$in": spec.IDs}})
	}
	if len(spec.AuthorIn) > 0 {
		f = append(f, bson.E{Key: "user_id", Value: bson.M{"$in": spec.AuthorIn}})
	}
	if spec.ParentID != nil {
		f = append(f, bson.E{Key: "parent_id", Value: *spec.ParentID})
	}
	if spec.Kind != nil {
		f = append(f, bson.E{Key: "type", Value: *spec.Kind})
	}
	if len(spec.MediaTypes) > 0 {
		f = append(f, bson.E{Key: "medias.type", Value: bson.M{"$in": spec.MediaTypes}})
	}
	if spec.VisibleTo != nil {
		f = append(f, visibilityFilter(*spec.VisibleTo)...)
	}
	return f
}

// visibilityFilter is CanView over a tweet with its author joined as tweet_owner.
func visibilityFilter(v Viewer) bson.D {
	if v.IsAnonymous() {
		return bson.D{{Key: "audience", Value: common.AudienceEveryone}}
	}
	return bson.D{{Key: "$or", Value: bson.A{
		bson.M{"audience": common.AudienceEveryone},
		bson.M{"$and": bson.A{
			bson.M{"audience": common.AudienceRestrictedCircle},
			bson.M{"$or": bson.A{
				bson.M{"user_id": v.ID},
				bson.M{fieldOwner + ".twitter_circle": v.ID},
			}},
		}},
	}}}
}

func computeMap(c ComputeSpec) bson.D {
	in := bson.D{}
	for _, k := range c.Keep {
		in = append(in, bson.E{Key: k, Value: "$$item." + k})
	}
	return bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: "$" + c.From},
		{Key: "as", Value: "item"},
		{Key: "in", Value: in},
	}}}
}
