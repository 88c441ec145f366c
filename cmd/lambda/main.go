package main

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/napolitain/boss-solver/internal/config"
	"github.com/napolitain/boss-solver/internal/converter"
	"github.com/napolitain/boss-solver/internal/logging"
	"github.com/napolitain/boss-solver/internal/service"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

type handler struct {
	planner *service.Planner
}

func (h *handler) handle(ctx context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	body := event.Body
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return errResp(http.StatusBadRequest, "invalid base64 body")
		}
		body = string(decoded)
	}

	req, err := converter.DecodeRequest(body)
	if err != nil {
		return errResp(http.StatusBadRequest, err.Error())
	}

	code, resp := h.planner.Handle(ctx, req)
	return jsonResp(code, resp)
}

func jsonResp(code int, resp converter.SolveResponse) (events.LambdaFunctionURLResponse, error) {
	body, err := converter.EncodeResponse(resp)
	if err != nil {
		return events.LambdaFunctionURLResponse{}, err
	}
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: body}, nil
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	return jsonResp(code, converter.SolveResponse{
		Sequence: []int{},
		Actions:  []string{},
		Status:   "invalid_input",
		Error:    msg,
	})
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("Missing or invalid solver configuration", err, nil)
	}
	h := &handler{planner: service.NewPlanner(cfg.SolverConfig())}
	lambda.Start(h.handle)
}
