package slug_test

import (
	"testing"

	"github.com/minhvt/corporate-portal/internal/core/common/slug"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestSlug(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Slug Suite")
}

var _ = Describe("Normalize", func() {
	It("should strip Vietnamese diacritics to base Latin letters", func() {
		Expect(slug.Normalize("Đà Nẵng")).To(Equal("da-nang"))
		Expect(slug.Normalize("Hà Nội")).To(Equal("ha-noi"))
		Expect(slug.Normalize("Thành phố Hồ Chí Minh")).To(Equal("thanh-pho-ho-chi-minh"))
		Expect(slug.Normalize("Hướng dẫn tuyển dụng")).To(Equal("huong-dan-tuyen-dung"))
	})

	It("should strip đ and Đ, which Unicode NFD would keep", func() {
		Expect(slug.Normalize("đường")).To(Equal("duong"))
		Expect(slug.Normalize("ĐƯỜNG")).To(Equal("duong"))
	})

	It("should collapse punctuation runs into a single hyphen and trim the edges", func() {
		Expect(slug.Normalize("Đà Nẵng %20 Test!!")).To(Equal("da-nang-20-test"))
		Expect(slug.Normalize("  --hello__world--  ")).To(Equal("hello-world"))
	})

	It("should lowercase the result", func() {
		Expect(slug.Normalize("HELLO World 123")).To(Equal("hello-world-123"))
	})

	It("should return empty for empty input", func() {
		Expect(slug.Normalize("")).To(Equal(""))
	})

	It("should return empty when nothing survives normalization", func() {
		Expect(slug.Normalize("!!! ???")).To(Equal(""))
	})

	It("should be idempotent", func() {
		inputs := []string{
			"Đà Nẵng %20 Test!!",
			"already-clean",
			"Tin tức mới nhất",
			"",
			"MIXED case And đ",
		}
		for _, in := range inputs {
			once := slug.Normalize(in)
			Expect(slug.Normalize(once)).To(Equal(once))
		}
	})

	It("should leave already-normalized slugs unchanged", func() {
		Expect(slug.Normalize("da-nang-test")).To(Equal("da-nang-test"))
		Expect(slug.IsNormalized("da-nang-test")).To(BeTrue())
		Expect(slug.IsNormalized("Đà Nẵng")).To(BeFalse())
	})
})
