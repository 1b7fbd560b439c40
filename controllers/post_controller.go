package controllers

import (
	"errors"
	"net/http"

	"DoctorPortal/services"

	"github.com/gin-gonic/gin"
)

var postService *services.PostService

func SetPostService(service *services.PostService) {
	postService = service
}

type postForm struct {
	TitleEN   string `form:"title_en"`
	TitleKA   string `form:"title_ka"`
	TitleRU   string `form:"title_ru"`
	ContentEN string `form:"content_en"`
	ContentKA string `form:"content_ka"`
	ContentRU string `form:"content_ru"`
	Published bool   `form:"published"`
}

func bindPostInput(c *gin.Context) (services.PostInput, error) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		return services.PostInput{}, err
	}

	if form.TitleEN == "" && form.TitleKA == "" && form.TitleRU == "" {
		return services.PostInput{}, errors.New("the title is required in at least one language")
	}
	if form.ContentEN == "" && form.ContentKA == "" && form.ContentRU == "" {
		return services.PostInput{}, errors.New("the content is required in at least one language")
	}

	input := services.PostInput{
		TitleEN:   form.TitleEN,
		TitleKA:   form.TitleKA,
		TitleRU:   form.TitleRU,
		ContentEN: form.ContentEN,
		ContentKA: form.ContentKA,
		ContentRU: form.ContentRU,
		Published: form.Published,
	}

	if mpForm, err := c.MultipartForm(); err == nil && mpForm != nil {
		files, err := readUploads(mpForm.File["image"])
		if err != nil {
			return services.PostInput{}, err
		}
		if len(files) > 0 {
			input.Image = &files[0]
		}
	}
	return input, nil
}

// ListPublishedPosts — публичная лента новостей
func ListPublishedPosts(c *gin.Context) {
	posts, err := postService.List(true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// ListAllPosts — все посты для админ-панели, включая черновики
func ListAllPosts(c *gin.Context) {
	posts, err := postService.List(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func GetPost(c *gin.Context) {
	post, err := postService.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreatePost создает новость; незаполненные локали берутся из заполненной
func CreatePost(c *gin.Context) {
	input, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := postService.Create(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func UpdatePost(c *gin.Context) {
	input, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := postService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	if err := postService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, services.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
