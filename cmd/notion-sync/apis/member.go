package apis

import (
	"context"
	"fmt"
	"net/http"
	"notion-sync-backend/cmd/notion-sync/model"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
)

type IMemberRepo interface {
	ListMembers(ctx context.Context) ([]model.Member, error)
	CreateMember(ctx context.Context, member model.Member) error
}

// MemberAPI seeds the relational members table from a CSV upload. The
// sync cycle picks new rows up on its next run; nothing here talks to
// the document store.
type MemberAPI struct {
	memberRepo IMemberRepo
}

func NewMemberAPI(memberRepo IMemberRepo) *MemberAPI {

	return &MemberAPI{
		memberRepo: memberRepo,
	}
}

func (a *MemberAPI) Setup(g *echo.Group) {
	g.GET("/members", a.listMembers)
	g.POST("/members", a.importMembers)
}

func (a *MemberAPI) listMembers(c echo.Context) error {

	ctx := c.Request().Context()

	members, err := a.memberRepo.ListMembers(ctx)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    members,
		},
	)
}

func (a *MemberAPI) importMembers(c echo.Context) error {

	ctx := c.Request().Context()

	csvfile, err := c.FormFile("csvfile")
	if err != nil {
		return c.JSON(
			http.StatusBadRequest,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	cf, err := csvfile.Open()
	if err != nil {
		return c.JSON(
			http.StatusBadRequest,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	defer cf.Close()

	var rows []model.MemberCSV
	err = gocsv.Unmarshal(cf, &rows)
	if err != nil {
		return c.JSON(
			http.StatusInternalServerError,
			model.BaseResponse{
				Message: err.Error(),
			},
		)
	}

	imported := 0
	for i, row := range rows {

		err = a.memberRepo.CreateMember(ctx, row.ToMember())
		if err != nil {
			return c.JSON(
				http.StatusInternalServerError,
				model.BaseResponse{
					Message: fmt.Sprintf("row %d (student %d): %s", i+1, row.StudentNumber, err.Error()),
					Data:    map[string]int{"imported": imported},
				},
			)
		}
		imported++
	}

	return c.JSON(
		http.StatusOK,
		model.BaseResponse{
			Message: "success",
			Data:    map[string]int{"imported": imported},
		},
	)
}
