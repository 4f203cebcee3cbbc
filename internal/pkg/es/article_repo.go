package es

import (
	"Inkwell/internal/pkg/consts"
	"Inkwell/internal/pkg/util"
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
)

const MaxSearchDepth = 400

type ArticleRepo interface {
	SearchArticles(ctx context.Context, keyword string, from, size int) ([]*ArticleES, error)
	SearchByTag(ctx context.Context, tag string, from, size int) ([]*ArticleES, error)
	IndexArticle(ctx context.Context, article *ArticleES, version int64) error
	DeleteArticle(ctx context.Context, id uint64) error
	UpdateAuthorDetail(ctx context.Context, authorID uint64, newDisplayName string) error
}

type ArticleRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewArticleRepo(client *elasticsearch.TypedClient) ArticleRepo {
	return &ArticleRepoImpl{client: client}
}

// SearchArticles 关键词检索，只命中已发布且可见的文章
func (s *ArticleRepoImpl) SearchArticles(ctx context.Context, keyword string, from, size int) ([]*ArticleES, error) {
	if from >= MaxSearchDepth {
		return []*ArticleES{}, nil
	}

	req := s.client.Search().
		Index(ArticleIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:  keyword,
							Fields: []string{"title^3", "excerpt^2", "content", "tags^2"},
							Boost:  util.PtrFloat32(2.0),
						},
					},
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:     keyword,
							Fields:    []string{"title", "content"},
							Fuzziness: util.PtrStr("AUTO"),
							Boost:     util.PtrFloat32(0.5),
						},
					},
				},
				MinimumShouldMatch: 1,
				Filter:             s.approvedFilter(),
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *ArticleRepoImpl) SearchByTag(ctx context.Context, tag string, from, size int) ([]*ArticleES, error) {
	req := s.client.Search().
		Index(ArticleIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"tags": {Value: tag},
						},
					},
				},
				Filter: s.approvedFilter(),
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"published_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, req)
}

func (s *ArticleRepoImpl) IndexArticle(ctx context.Context, article *ArticleES, version int64) error {
	docID := strconv.FormatUint(article.ID, 10)

	_, err := s.client.Index(ArticleIndex).
		Id(docID).
		Document(article).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *ArticleRepoImpl) DeleteArticle(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(ArticleIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *ArticleRepoImpl) UpdateAuthorDetail(ctx context.Context, authorID uint64, newDisplayName string) error {
	nameJSON, _ := json.Marshal(newDisplayName)

	params := map[string]json.RawMessage{
		"new_display_name": json.RawMessage(nameJSON),
	}

	scriptSource := "ctx._source.author_display_name = params.new_display_name;"

	resp, err := s.client.UpdateByQuery(ArticleIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"author_id": {Value: authorID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Do(ctx)
	if err != nil {
		return err
	}

	if len(resp.Failures) != 0 {
		return errors.New("Article Index: Update Author Detail Has Failures")
	}

	return nil
}

func (s *ArticleRepoImpl) approvedFilter() []types.Query {
	return []types.Query{{
		Term: map[string]types.TermQuery{
			"status": {Value: consts.ArticleStatusApproved},
		},
	}}
}

func (s *ArticleRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*ArticleES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*ArticleES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var article ArticleES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &article); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			article.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				article.Sort[i] = v
			}
		}
		results = append(results, &article)
	}
	return results, nil
}
