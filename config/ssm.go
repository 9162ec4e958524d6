package config

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// MergeSSM loads every parameter under prefix from AWS Systems Manager
// Parameter Store and adds it to config under the upper-cased last path
// segment, e.g. /catalog/prod/slack_webhook_url -> SLACK_WEBHOOK_URL. Values
// already present win.
func MergeSSM(ctx context.Context, client ssm.GetParametersByPathAPIClient, config map[string]string, prefix string) (int, error) {
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(prefix),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})

	fromSSM := map[string]string{}
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, fmt.Errorf("load parameters under %s: %w", prefix, err)
		}
		for _, p := range page.Parameters {
			name := strings.ToUpper(path.Base(aws.ToString(p.Name)))
			fromSSM[name] = aws.ToString(p.Value)
		}
	}

	mergeMissing(config, fromSSM)
	return len(fromSSM), nil
}
