package recipe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"mime/multipart"
	"sort"
	"strings"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils"
	"tastebook/internal/utils/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeService interface {
		CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID string, isStaff bool) error
		GetRecipeDetail(ctx context.Context, recipeID string, viewer Viewer, viewerKey string) (domain.RecipeDetailResponse, error)
		Dashboard(ctx context.Context, viewerID string, isStaff bool, query domain.DashboardQuery) ([]domain.RecipeResponse, error)
		ProfileRecipes(ctx context.Context, authorID string, viewer Viewer) ([]domain.RecipeResponse, error)
		Surprise(ctx context.Context, viewer Viewer, query domain.SurpriseQuery) (*domain.RecipeResponse, error)
		UploadRecipeImage(ctx context.Context, recipeID, userID string, image *multipart.FileHeader) (string, error)
		IsVisible(ctx context.Context, recipeID string, viewer Viewer) (bool, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		viewerWindow     *utils.ViewerWindow
		s3               storage.AwsS3
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	viewerWindow *utils.ViewerWindow,
	s3 storage.AwsS3,
) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		viewerWindow:     viewerWindow,
		s3:               s3,
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.CreateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	if req.TimeMinutes <= 0 {
		return domain.RecipeResponse{}, domain.ErrInvalidTime
	}
	mealTypes, err := normalizeMealTypes(req.MealTypes)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	newRecipe := &entities.Recipe{
		ID:           uuid.New(),
		AuthorID:     userUUID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Ingredients:  normalizeLineText(req.Ingredients),
		Instructions: normalizeLineText(req.Instructions),
		TimeMinutes:  req.TimeMinutes,
		MealTypes:    strings.Join(mealTypes, ","),
		ImageURL:     req.ImageURL,
	}

	if err := s.recipeRepository.Create(ctx, newRecipe); err != nil {
		return domain.RecipeResponse{}, err
	}

	return toRecipeResponse(&RecipeWithStats{Recipe: *newRecipe}), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.UpdateRecipeRequest, userID string) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if existing.AuthorID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrNotAuthor
	}

	if req.Title != "" {
		existing.Title = strings.TrimSpace(req.Title)
	}
	if req.Description != "" {
		existing.Description = req.Description
	}
	if req.Ingredients != nil {
		existing.Ingredients = normalizeLineText(*req.Ingredients)
	}
	if req.Instructions != nil {
		existing.Instructions = normalizeLineText(*req.Instructions)
	}
	if req.TimeMinutes > 0 {
		existing.TimeMinutes = req.TimeMinutes
	}
	if len(req.MealTypes) > 0 {
		mealTypes, err := normalizeMealTypes(req.MealTypes)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		existing.MealTypes = strings.Join(mealTypes, ",")
	}

	if err := s.recipeRepository.Update(ctx, existing); err != nil {
		return domain.RecipeResponse{}, err
	}

	stats, err := s.recipeRepository.GetWithStats(ctx, recipeID)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(stats), nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID string, isStaff bool) error {
	existing, err := s.recipeRepository.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if existing.AuthorID.String() != userID && !isStaff {
		return domain.ErrNotAuthor
	}

	if existing.ImageURL != "" {
		objectKey := s.s3.GetObjectKeyFromLink(existing.ImageURL)
		if objectKey != "" {
			_ = s.s3.DeleteFile(objectKey)
		}
	}

	return s.recipeRepository.Delete(ctx, recipeID)
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID string, viewer Viewer, viewerKey string) (domain.RecipeDetailResponse, error) {
	visible, err := s.recipeRepository.IsVisible(ctx, recipeID, viewer)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}
	if !visible {
		// Not-permitted is indistinguishable from missing.
		return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
	}

	if viewerKey != "" && s.viewerWindow.Record(recipeID, viewerKey) {
		if err := s.recipeRepository.IncrementViews(ctx, recipeID); err != nil {
			return domain.RecipeDetailResponse{}, err
		}
	}

	stats, err := s.recipeRepository.GetWithStats(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetailResponse{}, err
	}

	activeViewers := s.viewerWindow.ActiveViewers(recipeID)
	return domain.RecipeDetailResponse{
		RecipeResponse: toRecipeResponse(stats),
		Ingredients:    SplitLines(stats.Ingredients),
		Instructions:   SplitLines(stats.Instructions),
		ActiveViewers:  activeViewers,
		IsTrending:     activeViewers >= 3,
	}, nil
}

// Dashboard lists visible recipes for a signed-in viewer, never including
// the viewer's own, with conjunctive filters and a stable sort.
func (s *recipeService) Dashboard(ctx context.Context, viewerID string, isStaff bool, query domain.DashboardQuery) ([]domain.RecipeResponse, error) {
	viewerUUID, err := uuid.Parse(viewerID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	viewer := ViewerFromID(viewerUUID, isStaff)

	listQuery, err := buildListQuery(query.MealTypes, query.TimeFilter, query.Search)
	if err != nil {
		return nil, err
	}
	listQuery.FollowingOnly = query.FollowingOnly
	listQuery.ExcludeAuthorID = &viewerUUID

	if err := validateDiet(query.Diet); err != nil {
		return nil, err
	}
	minRating, err := resolveRatingFilter(query.RatingFilter)
	if err != nil {
		return nil, err
	}
	sortKey := query.Sort
	if sortKey == "" {
		sortKey = domain.SortTime
	}
	if sortKey != domain.SortTime && sortKey != domain.SortNewest &&
		sortKey != domain.SortMostViewed && sortKey != domain.SortPopularity {
		return nil, domain.ErrInvalidSortKey
	}

	results, err := s.recipeRepository.GetVisible(ctx, viewer, listQuery)
	if err != nil {
		return nil, err
	}

	filtered := filterByDietAndRating(results, query.Diet, minRating)
	sortRecipes(filtered, sortKey)

	response := make([]domain.RecipeResponse, 0, len(filtered))
	for i := range filtered {
		response = append(response, toRecipeResponse(&filtered[i]))
	}
	return response, nil
}

func (s *recipeService) ProfileRecipes(ctx context.Context, authorID string, viewer Viewer) ([]domain.RecipeResponse, error) {
	authorUUID, err := uuid.Parse(authorID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	results, err := s.recipeRepository.GetVisible(ctx, viewer, ListQuery{
		TimeMax:  -1,
		AuthorID: &authorUUID,
	})
	if err != nil {
		return nil, err
	}

	sortRecipes(results, domain.SortNewest)
	response := make([]domain.RecipeResponse, 0, len(results))
	for i := range results {
		response = append(response, toRecipeResponse(&results[i]))
	}
	return response, nil
}

// Surprise returns a uniformly random visible recipe matching the filters,
// or nil when nothing matches.
func (s *recipeService) Surprise(ctx context.Context, viewer Viewer, query domain.SurpriseQuery) (*domain.RecipeResponse, error) {
	listQuery, err := buildListQuery(query.MealTypes, query.TimeFilter, "")
	if err != nil {
		return nil, err
	}
	if err := validateDiet(query.Diet); err != nil {
		return nil, err
	}

	results, err := s.recipeRepository.GetVisible(ctx, viewer, listQuery)
	if err != nil {
		return nil, err
	}

	candidates := filterByDietAndRating(results, query.Diet, 0)
	if len(candidates) == 0 {
		return nil, nil
	}

	picked := toRecipeResponse(&candidates[rand.Intn(len(candidates))])
	return &picked, nil
}

func (s *recipeService) UploadRecipeImage(ctx context.Context, recipeID, userID string, image *multipart.FileHeader) (string, error) {
	existing, err := s.recipeRepository.GetByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrRecipeNotFound
		}
		return "", err
	}

	if existing.AuthorID.String() != userID {
		return "", domain.ErrNotAuthor
	}

	fileName := fmt.Sprintf("recipe-%s", existing.ID.String())
	var objectKey string
	var uploadErr error

	if existing.ImageURL != "" {
		existingKey := s.s3.GetObjectKeyFromLink(existing.ImageURL)
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(existingKey, image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(fileName, image, "recipes", storage.AllowImage...)
		}
	} else {
		objectKey, uploadErr = s.s3.UploadFile(fileName, image, "recipes", storage.AllowImage...)
	}
	if uploadErr != nil {
		return "", uploadErr
	}

	existing.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	if err := s.recipeRepository.Update(ctx, existing); err != nil {
		return "", err
	}
	return existing.ImageURL, nil
}

func (s *recipeService) IsVisible(ctx context.Context, recipeID string, viewer Viewer) (bool, error) {
	return s.recipeRepository.IsVisible(ctx, recipeID, viewer)
}

func buildListQuery(mealTypes []string, timeFilter, search string) (ListQuery, error) {
	query := ListQuery{TimeMax: -1, Search: search}

	normalized, err := normalizeMealTypes(mealTypes)
	if err != nil {
		return ListQuery{}, err
	}
	query.MealTypes = normalized

	if timeFilter != "" {
		interval, ok := domain.TimeFilters[timeFilter]
		if !ok {
			return ListQuery{}, domain.ErrInvalidTimeFilter
		}
		query.TimeMin = interval.Min
		query.TimeMax = interval.Max
	}
	return query, nil
}

func normalizeMealTypes(mealTypes []string) ([]string, error) {
	var normalized []string
	for _, mealType := range mealTypes {
		mealType = strings.ToLower(strings.TrimSpace(mealType))
		if mealType == "" {
			continue
		}
		valid := false
		for _, known := range domain.RecipeMealTypes {
			if mealType == known {
				valid = true
				break
			}
		}
		if !valid {
			return nil, domain.ErrInvalidMealType
		}
		normalized = append(normalized, mealType)
	}
	return normalized, nil
}

func validateDiet(diet string) error {
	switch diet {
	case "", domain.DietAny, domain.DietVegan, domain.DietVegetarian, domain.DietNonVegetarian:
		return nil
	}
	return domain.ErrInvalidDietFilter
}

func resolveRatingFilter(filter string) (float64, error) {
	if filter == "" {
		return 0, nil
	}
	min, ok := domain.RatingFilters[filter]
	if !ok {
		return 0, domain.ErrInvalidRatingFilter
	}
	return min, nil
}

func filterByDietAndRating(results []RecipeWithStats, diet string, minRating float64) []RecipeWithStats {
	filtered := make([]RecipeWithStats, 0, len(results))
	for _, result := range results {
		if diet != "" && diet != domain.DietAny && ClassifyDiet(result.Ingredients) != diet {
			continue
		}
		if minRating > 0 && roundRating(result.AvgStars) < minRating {
			continue
		}
		filtered = append(filtered, result)
	}
	return filtered
}

func sortRecipes(results []RecipeWithStats, key string) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := &results[i], &results[j]
		switch key {
		case domain.SortNewest:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
		case domain.SortMostViewed:
			if a.TotalViews != b.TotalViews {
				return a.TotalViews > b.TotalViews
			}
		case domain.SortPopularity:
			pa, pb := popularity(a), popularity(b)
			if pa != pb {
				return pa > pb
			}
		default: // domain.SortTime
			if a.TimeMinutes != b.TimeMinutes {
				return a.TimeMinutes < b.TimeMinutes
			}
		}
		return a.ID.String() < b.ID.String()
	})
}

func popularity(r *RecipeWithStats) float64 {
	return roundRating(r.AvgStars)*float64(r.RatingCnt) + 0.1*float64(r.TotalViews)
}

func roundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

func normalizeLineText(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

func toRecipeResponse(r *RecipeWithStats) domain.RecipeResponse {
	response := domain.RecipeResponse{
		ID:            r.ID.String(),
		AuthorID:      r.AuthorID.String(),
		Title:         r.Title,
		Description:   r.Description,
		TimeMinutes:   r.TimeMinutes,
		Diet:          ClassifyDiet(r.Ingredients),
		ImageURL:      r.ImageURL,
		IsHidden:      r.IsHidden,
		AverageRating: roundRating(r.AvgStars),
		RatingCount:   r.RatingCnt,
		TotalViews:    r.TotalViews,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.MealTypes != "" {
		response.MealTypes = strings.Split(r.MealTypes, ",")
	}
	if r.Author != nil {
		response.AuthorHandle = r.Author.Handle
	}
	return response
}
