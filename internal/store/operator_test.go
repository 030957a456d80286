package store_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/models"
	"github.com/civicpulse/backend/internal/store"
)

var _ = Describe("OperatorDirectory", func() {
	var (
		ctx       context.Context
		f         fixture
		directory store.OperatorDirectory
	)

	BeforeEach(func() {
		ctx = context.Background()
		db := newTestDB()
		f = fixture{db: db}
		directory = store.NewStores(db).Operators()

		lighting := f.category(3, "Public Lighting")
		waste := f.category(5, "Waste")
		roads := f.category(8, "Roads")

		lightingOffice := f.office(30, "Lighting Office", lighting)
		wasteOffice := f.office(50, "Waste Office", waste, roads)

		lightingTech := f.role(100, "Lighting Technician", models.RoleTypeTechOfficer, &lightingOffice.ID)
		wasteTech := f.role(101, "Waste Technician", models.RoleTypeTechOfficer, &wasteOffice.ID)
		pr := f.role(102, "Public Relations Officer", models.RoleTypePubRelations, nil)
		external := f.role(103, "External Maintainer", models.RoleTypeExternalMaintainer, nil)
		citizen := f.role(104, "Citizen", models.RoleTypeCitizen, nil)

		f.user(1, citizen)
		f.user(2, pr)
		f.user(11, lightingTech)
		f.user(12, lightingTech)
		f.user(13, wasteTech, lightingTech)

		acme := f.company(70, "Acme Lighting", lighting)
		bins := f.company(71, "Bins Ltd", waste)
		m1 := f.user(80, external)
		m2 := f.user(81, external)
		Expect(db.Model(&models.User{}).Where("id = ?", m1.ID).Update("company_id", acme.ID).Error).To(Succeed())
		Expect(db.Model(&models.User{}).Where("id = ?", m2.ID).Update("company_id", bins.ID).Error).To(Succeed())
	})

	Describe("ListOperators", func() {
		It("returns public relations and technical officers only", func() {
			users, err := directory.ListOperators(ctx)
			Expect(err).NotTo(HaveOccurred())

			ids := make([]int64, 0, len(users))
			for _, u := range users {
				ids = append(ids, u.ID)
			}
			Expect(ids).To(Equal([]int64{2, 11, 12, 13}))
			Expect(users[3].Roles).To(HaveLen(2))
		})
	})

	Describe("ListOperatorsByCategory", func() {
		It("returns the officers whose office covers the category", func() {
			users, err := directory.ListOperatorsByCategory(ctx, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(int64(13)))
		})
	})

	Describe("CategoriesOfOfficer", func() {
		It("unions the coverage of every office the officer belongs to", func() {
			categories, err := directory.CategoriesOfOfficer(ctx, 13)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]int64{3, 5, 8}))
		})

		It("is empty for staff without an office", func() {
			categories, err := directory.CategoriesOfOfficer(ctx, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())
		})

		It("ignores office roles that are not technical", func() {
			desk := f.role(105, "Lighting Front Desk", models.RoleTypePubRelations, ptr(int64(30)))
			f.user(20, desk)

			categories, err := directory.CategoriesOfOfficer(ctx, 20)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())
		})

		It("is empty for deleted officers", func() {
			Expect(f.db.Delete(&models.User{ID: 12}).Error).To(Succeed())

			categories, err := directory.CategoriesOfOfficer(ctx, 12)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(BeEmpty())

			_, err = directory.LeastLoadedAssignee(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("CategoriesOfExternalMaintainer", func() {
		It("follows the maintainer's company coverage", func() {
			categories, err := directory.CategoriesOfExternalMaintainer(ctx, 81)
			Expect(err).NotTo(HaveOccurred())
			Expect(categories).To(Equal([]int64{5}))
		})
	})

	Describe("LeastLoadedAssignee", func() {
		It("picks the covering officer with the fewest assigned reports", func() {
			f.report(500, 1, 3, models.ReportStatusAssigned, ptr(int64(11)))
			f.report(501, 1, 3, models.ReportStatusAssigned, ptr(int64(11)))
			f.report(502, 1, 3, models.ReportStatusAssigned, ptr(int64(12)))
			f.report(503, 1, 3, models.ReportStatusAssigned, ptr(int64(13)))
			f.report(504, 1, 3, models.ReportStatusAssigned, ptr(int64(13)))

			assignee, err := directory.LeastLoadedAssignee(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(assignee).To(Equal(int64(12)))
		})

		It("only counts reports in assigned status", func() {
			f.report(500, 1, 3, models.ReportStatusAssigned, ptr(int64(11)))
			f.report(501, 1, 3, models.ReportStatusInProgress, ptr(int64(12)))
			f.report(502, 1, 3, models.ReportStatusResolved, ptr(int64(12)))
			f.report(503, 1, 3, models.ReportStatusAssigned, ptr(int64(13)))

			assignee, err := directory.LeastLoadedAssignee(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(assignee).To(Equal(int64(12)))
		})

		It("breaks ties by lowest id", func() {
			assignee, err := directory.LeastLoadedAssignee(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(assignee).To(Equal(int64(11)))
		})

		It("fails with ErrNoAssigneeFound when nobody covers the category", func() {
			f.category(9, "Sewer System")
			_, err := directory.LeastLoadedAssignee(ctx, 9)
			Expect(err).To(MatchError(store.ErrNoAssigneeFound))
		})
	})

	Describe("ListExternalMaintainers", func() {
		It("lists every maintainer with company affiliation", func() {
			users, err := directory.ListExternalMaintainers(ctx, store.MaintainerFilter{})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(2))
			Expect(users[0].Company).NotTo(BeNil())
			Expect(users[0].Company.Name).To(Equal("Acme Lighting"))
		})

		It("filters by covered category", func() {
			users, err := directory.ListExternalMaintainers(ctx, store.MaintainerFilter{CategoryID: ptr(int64(5))})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(int64(81)))
		})

		It("filters by company", func() {
			users, err := directory.ListExternalMaintainers(ctx, store.MaintainerFilter{CompanyID: ptr(int64(70))})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(int64(80)))
		})
	})
})
