package handler

import (
	"context"

	"github.com/fekuna/cottontrace-service/internal/isotope/dto"
	"github.com/fekuna/cottontrace-service/internal/model"
	"github.com/fekuna/cottontrace-service/internal/query"
	"github.com/fekuna/cottontrace-service/pkg/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "cottontrace.v1.IsotopeService"

type ListIsotopesRequest struct {
	Filters   dto.IsotopeFilters `json:"filters"`
	SortBy    string             `json:"sortBy,omitempty"`
	SortOrder string             `json:"sortOrder,omitempty"`
	Toggle    string             `json:"toggle,omitempty"`
	Page      int                `json:"page,omitempty"`
	PageSize  int                `json:"pageSize,omitempty"`
	Token     string             `json:"token,omitempty"`
}

type ListIsotopesResponse struct {
	query.Page[model.IsotopeRecord]
	SortBy    string `json:"sortBy"`
	SortOrder string `json:"sortOrder"`
	Token     string `json:"token"`
}

type GetIsotopeRequest struct {
	ID string `json:"id"`
}

type SummarizeIsotopesRequest struct {
	Filters dto.IsotopeFilters `json:"filters"`
}

type TrendRequest struct {
	Filters dto.IsotopeFilters `json:"filters"`
	Limit   int                `json:"limit,omitempty"`
}

type TrendResponse struct {
	Points []dto.TrendPoint `json:"points"`
}

type ExportIsotopesRequest struct {
	Filters   dto.IsotopeFilters `json:"filters"`
	SortBy    string             `json:"sortBy,omitempty"`
	SortOrder string             `json:"sortOrder,omitempty"`
	Format    string             `json:"format"`
}

type IsotopeServiceServer interface {
	ListIsotopeRecords(context.Context, *ListIsotopesRequest) (*ListIsotopesResponse, error)
	GetIsotopeRecord(context.Context, *GetIsotopeRequest) (*dto.IsotopeDetail, error)
	SummarizeIsotopes(context.Context, *SummarizeIsotopesRequest) (*dto.IsotopeSummary, error)
	IsotopeTrend(context.Context, *TrendRequest) (*TrendResponse, error)
	ExportIsotopes(context.Context, *ExportIsotopesRequest) (*dto.ExportResult, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IsotopeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "ListIsotopeRecords", IsotopeServiceServer.ListIsotopeRecords),
		grpcjson.Unary(ServiceName, "GetIsotopeRecord", IsotopeServiceServer.GetIsotopeRecord),
		grpcjson.Unary(ServiceName, "SummarizeIsotopes", IsotopeServiceServer.SummarizeIsotopes),
		grpcjson.Unary(ServiceName, "IsotopeTrend", IsotopeServiceServer.IsotopeTrend),
		grpcjson.Unary(ServiceName, "ExportIsotopes", IsotopeServiceServer.ExportIsotopes),
	},
	Metadata: "cottontrace/v1/isotope.json",
}

func RegisterIsotopeServiceServer(s grpc.ServiceRegistrar, srv IsotopeServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}
