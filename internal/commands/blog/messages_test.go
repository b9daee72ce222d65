package blogcmd

import "testing"

func TestBuildIndexCommandValidate(t *testing.T) {
	valid := []BuildIndexCommand{
		{},
		{PostsDir: "public/posts", OutputPath: "public/blog-index.json", ContentPrefix: "posts"},
		{ContentPrefix: "blog/posts"},
	}
	for _, cmd := range valid {
		if err := cmd.Validate(); err != nil {
			t.Fatalf("expected %#v to validate, got %v", cmd, err)
		}
	}

	invalid := []BuildIndexCommand{
		{PostsDir: "   "},
		{OutputPath: "\t"},
		{ContentPrefix: "../outside"},
	}
	for _, cmd := range invalid {
		if err := cmd.Validate(); err == nil {
			t.Fatalf("expected %#v to fail validation", cmd)
		}
	}
}

func TestLoadPostCommandValidate(t *testing.T) {
	if err := (LoadPostCommand{Slug: "hello"}).Validate(); err != nil {
		t.Fatalf("expected valid slug, got %v", err)
	}
	for _, slug := range []string{"", " hello"} {
		if err := (LoadPostCommand{Slug: slug}).Validate(); err == nil {
			t.Fatalf("expected slug %q to fail validation", slug)
		}
	}
}

func TestMessageTypes(t *testing.T) {
	if (BuildIndexCommand{}).Type() != "bytelog.blog.build_index" {
		t.Fatalf("unexpected build index type")
	}
	if (LoadPostCommand{}).Type() != "bytelog.blog.load_post" {
		t.Fatalf("unexpected load post type")
	}
}
