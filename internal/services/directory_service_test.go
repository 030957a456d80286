package services_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/services"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("DirectoryService", func() {
	var (
		ctx        context.Context
		directory  *mockDirectory
		categories *mockCategoryStore
		svc        *services.DirectoryService
	)

	BeforeEach(func() {
		ctx = context.Background()
		directory = &mockDirectory{}
		categories = &mockCategoryStore{}
		svc = services.NewDirectoryService(directory, categories)
	})

	It("rejects operator lookups for unknown categories", func() {
		categories.existsFn = func(context.Context, int64) (bool, error) { return false, nil }
		directory.listOperatorsByCategoryFn = func(context.Context, int64) ([]models.User, error) {
			Fail("directory should not be queried")
			return nil, nil
		}

		_, err := svc.OperatorsForCategory(ctx, 9)
		Expect(err).To(MatchError(services.ErrCategoryNotFound))
	})

	It("lists the officers covering a category", func() {
		directory.listOperatorsByCategoryFn = func(_ context.Context, categoryID int64) ([]models.User, error) {
			Expect(categoryID).To(Equal(int64(5)))
			return []models.User{{ID: 13}}, nil
		}

		users, err := svc.OperatorsForCategory(ctx, 5)
		Expect(err).NotTo(HaveOccurred())
		Expect(users).To(HaveLen(1))
		Expect(users[0].ID).To(Equal(int64(13)))
	})

	It("passes maintainer filters through once the category is known", func() {
		var got store.MaintainerFilter
		directory.listExternalMaintainersFn = func(_ context.Context, f store.MaintainerFilter) ([]models.User, error) {
			got = f
			return nil, nil
		}
		company := int64(70)
		category := int64(3)

		_, err := svc.ExternalMaintainers(ctx, store.MaintainerFilter{CompanyID: &company, CategoryID: &category})
		Expect(err).NotTo(HaveOccurred())
		Expect(*got.CompanyID).To(Equal(company))
		Expect(*got.CategoryID).To(Equal(category))
	})
})
