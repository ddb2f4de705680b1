/*
推荐服务核心：把自由文本档案变为排好序、过滤过、带解释、可缓存的
候选列表。依赖在构造时显式注入且初始化后不可变，各请求处理器通过
就绪谓词判断服务状态，而不是在调用点零散判空。
*/

package recommender

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"careernet-ml-go/internal/corpus"
	"careernet-ml-go/internal/embedder"
	"careernet-ml-go/internal/types"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// 为推荐流水线定义专用tracer
var recommendTracer = otel.Tracer("careernet-ml-go/recommender")

// 排序前的超额取数因子：先取 2*topN 个候选，给零匹配剔除留出余量。
// 这是启发式，剔除过多时最终结果可以少于 topN。
const overFetchFactor = 2

// DefaultTopN 未指定时的推荐条数
const DefaultTopN = 5

// Service 推荐与打分引擎，初始化完成后对并发请求只读
type Service struct {
	embedder  embedder.TextEmbedder
	jobs      *corpus.Corpus
	courses   *corpus.Corpus
	extractor *SkillExtractor
	analyzer  *MatchAnalyzer
	cache     *ResponseCache
}

// NewService 创建推荐服务。
// jobs/courses 允许为nil(未就绪)，对应请求会得到 ErrNotReady 而非空结果。
func NewService(emb embedder.TextEmbedder, jobs, courses *corpus.Corpus, vocabulary []string, cache *ResponseCache) *Service {
	extractor := NewSkillExtractor(vocabulary)
	if cache == nil {
		cache = NewResponseCache(DefaultCacheTTL, DefaultCacheMaxEntries)
	}
	return &Service{
		embedder:  emb,
		jobs:      jobs,
		courses:   courses,
		extractor: extractor,
		analyzer:  NewMatchAnalyzer(extractor),
		cache:     cache,
	}
}

// JobsReady 岗位推荐是否就绪
func (s *Service) JobsReady() bool {
	return s.embedder != nil && s.jobs.Ready()
}

// CoursesReady 课程/认证推荐是否就绪
func (s *Service) CoursesReady() bool {
	return s.embedder != nil && s.courses.Ready()
}

// JobCount 岗位语料库大小
func (s *Service) JobCount() int {
	return s.jobs.Len()
}

// CourseCount 课程语料库大小
func (s *Service) CourseCount() int {
	return s.courses.Len()
}

// RecommendJobs 岗位推荐主流程。
// 未就绪时返回 ErrNotReady；筛选后无候选时返回 total_found=0 的空结果，
// 二者是不同的失败类别，不可混同。
func (s *Service) RecommendJobs(ctx context.Context, profile types.Profile, topN int, filters *types.FilterSpec) (*types.RecommendationResponse, error) {
	ctx, span := recommendTracer.Start(ctx, "recommender.RecommendJobs")
	defer span.End()

	if !s.JobsReady() {
		span.SetStatus(codes.Error, "service not ready")
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	span.SetAttributes(
		attribute.Int("recommend.top_n", topN),
		attribute.Int("recommend.corpus_size", s.jobs.Len()),
		attribute.Bool("recommend.filtered", !filters.IsZero()),
	)

	// 缓存拦截整条流水线
	fingerprint := Fingerprint(profile, topN, filters)
	if cached, ok := s.cache.Get(fingerprint); ok {
		if resp, ok := cached.(*types.RecommendationResponse); ok {
			span.SetAttributes(attribute.Bool("recommend.cache_hit", true))
			return resp, nil
		}
	}

	// 1. 档案文本向量化
	queryVec, err := s.encodeOne(ctx, profile.QueryText())
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// 2. 与全量语料计算余弦相似度
	scores := CosineSimilarities(queryVec, s.jobs.Embeddings)

	// 3. 应用结构化筛选(未通过的行置为负分)
	if !filters.IsZero() {
		scores = ApplyFilters(s.jobs.Records, scores, filters)
	}

	// 4. 收集合法行并按分数降序稳定排序(同分保持语料库原序)
	validIdx := make([]int, 0, len(scores))
	for i, score := range scores {
		if score >= 0 {
			validIdx = append(validIdx, i)
		}
	}
	if len(validIdx) == 0 {
		return &types.RecommendationResponse{
			Recommendations: []types.JobRecommendation{},
			Message:         "No jobs found matching the filters",
			TotalFound:      0,
			FiltersApplied:  filters,
		}, nil
	}
	sort.SliceStable(validIdx, func(a, b int) bool {
		return scores[validIdx[a]] > scores[validIdx[b]]
	})

	// 5. 超额取数，给零匹配剔除留余量
	working := validIdx
	if len(working) > topN*overFetchFactor {
		working = working[:topN*overFetchFactor]
	}

	// 6. 逐个计算技能匹配并剔除零匹配候选
	recommendations := make([]types.JobRecommendation, 0, topN)
	for _, idx := range working {
		job := s.jobs.Records[idx]
		score := ToPercent(scores[idx])

		matching, missing, matchPct := s.analyzer.Analyze(profile.Skills, job.SkillsText)
		if len(matching) == 0 || matchPct == 0 {
			continue
		}

		recommendations = append(recommendations, types.JobRecommendation{
			JobID:                job.ID,
			JobRole:              job.Role,
			Company:              job.Company,
			Location:             job.Location,
			SkillsDescription:    job.SkillsText,
			Score:                score,
			Explanation:          ExplainJob(score, matching, missing),
			MatchingSkills:       matching,
			MissingSkills:        missing,
			SkillMatchPercentage: matchPct,
		})
		if len(recommendations) >= topN {
			break
		}
	}

	resp := &types.RecommendationResponse{
		Recommendations: recommendations,
		Message:         fmt.Sprintf("Found %d recommendations", len(recommendations)),
		TotalFound:      len(validIdx),
	}
	if !filters.IsZero() {
		resp.FiltersApplied = filters
	}

	s.cache.Put(fingerprint, resp)
	return resp, nil
}

// RecommendCertifications 课程/认证推荐。
// targetRole 非空且岗位语料库就绪时，先对岗位语料做一次单发相似度查询，
// 用最匹配岗位要求的技能减去用户已有技能得到技能缺口，再据此构造查询。
// 课程路径不做零匹配剔除，前 topN 条全部返回。
func (s *Service) RecommendCertifications(ctx context.Context, profile types.Profile, targetRole string, topN int) (*types.CertificationResponse, error) {
	ctx, span := recommendTracer.Start(ctx, "recommender.RecommendCertifications")
	defer span.End()

	if !s.CoursesReady() {
		span.SetStatus(codes.Error, "course corpus not ready")
		return nil, ErrNotReady
	}
	if topN <= 0 {
		topN = DefaultTopN
	}

	userSkills := s.extractor.Extract(profile.Skills)

	// 技能缺口：目标岗位最匹配的语料条目要求的技能中，用户尚不具备的部分
	var skillGap []string
	if targetRole != "" && s.jobs.Ready() {
		gap, err := s.computeSkillGap(ctx, targetRole, profile.Skills, userSkills)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		skillGap = gap
	}
	span.SetAttributes(attribute.Int("recommend.skill_gap", len(skillGap)))

	// 有缺口时查询文本围绕缺口构造，否则退回档案概要
	var queryText string
	if len(skillGap) > 0 {
		role := targetRole
		if role == "" {
			role = "Career growth"
		}
		queryText = fmt.Sprintf("Target job: %s\nCurrent skills: %s\nMissing skills: %s",
			role, strings.Join(userSkills, ", "), strings.Join(skillGap, ", "))
	} else {
		queryText = fmt.Sprintf("Current skills: %s\nExperience: %s\nEducation: %s",
			strings.Join(userSkills, ", "), profile.Experience, profile.Education)
	}

	queryVec, err := s.encodeOne(ctx, queryText)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	scores := CosineSimilarities(queryVec, s.courses.Embeddings)
	order := make([]int, len(scores))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	if len(order) > topN {
		order = order[:topN]
	}

	userSet := lowerSet(userSkills)
	gapSet := lowerSet(skillGap)

	recommendations := make([]types.CertificationRecommendation, 0, len(order))
	for _, idx := range order {
		course := s.courses.Records[idx]
		score := ToPercent(scores[idx])
		courseSkills := s.extractor.Extract(course.Description + " " + course.SkillsText)

		var gapCovered, buildsOn []string
		for _, skill := range courseSkills {
			key := strings.ToLower(skill)
			if _, ok := gapSet[key]; ok {
				gapCovered = append(gapCovered, skill)
			}
			if _, ok := userSet[key]; ok {
				buildsOn = append(buildsOn, skill)
			}
		}

		recommendations = append(recommendations, types.CertificationRecommendation{
			Title:                course.Title,
			Description:          course.Description,
			Provider:             course.Provider,
			Level:                course.Level,
			SkillsCovered:        courseSkills,
			Score:                score,
			RelevanceExplanation: ExplainCourse(score, gapCovered, buildsOn),
		})
	}

	if len(skillGap) > MaxSkills {
		skillGap = skillGap[:MaxSkills]
	}
	return &types.CertificationResponse{
		Recommendations: recommendations,
		Message:         fmt.Sprintf("Found %d certification recommendations", len(recommendations)),
		SkillGap:        skillGap,
		TotalFound:      len(recommendations),
	}, nil
}

// computeSkillGap 对岗位语料做一次单发相似度查询，返回最佳岗位的技能缺口
func (s *Service) computeSkillGap(ctx context.Context, targetRole, profileSkills string, userSkills []string) ([]string, error) {
	targetVec, err := s.encodeOne(ctx, targetRole+" "+profileSkills)
	if err != nil {
		return nil, err
	}

	jobScores := CosineSimilarities(targetVec, s.jobs.Embeddings)
	bestIdx := 0
	for i, score := range jobScores {
		if score > jobScores[bestIdx] {
			bestIdx = i
		}
	}

	jobSkills := s.extractor.Extract(s.jobs.Records[bestIdx].SkillsText)
	userSet := lowerSet(userSkills)

	var gap []string
	for _, skill := range jobSkills {
		if _, ok := userSet[strings.ToLower(skill)]; !ok {
			gap = append(gap, skill)
		}
	}
	return gap, nil
}

// encodeOne 将单条文本向量化
func (s *Service) encodeOne(ctx context.Context, text string) ([]float64, error) {
	vectors, err := s.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, newStageError("encode", err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, newStageError("encode", fmt.Errorf("向量化结果为空"))
	}
	return vectors[0], nil
}

// CacheStats 缓存统计
func (s *Service) CacheStats() types.CacheStats {
	return s.cache.Stats()
}

// CacheClear 清空缓存，返回清除条目数
func (s *Service) CacheClear() int {
	return s.cache.Clear()
}
