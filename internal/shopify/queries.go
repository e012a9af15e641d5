package shopify

// ProductsQuery fetches the product catalog with images and variants,
// newest first. Paged by the caller.
const ProductsQuery = `
query Products($first: Int!, $after: String) {
  products(first: $first, after: $after, sortKey: CREATED_AT, reverse: true) {
    edges {
      cursor
      node {
        id
        handle
        title
        vendor
        productType
        tags
        featuredImage {
          url
          width
          height
          altText
        }
        images(first: 6) {
          edges {
            node {
              url
              width
              height
              altText
            }
          }
        }
        variants(first: 20) {
          edges {
            node {
              id
              title
              availableForSale
              price {
                amount
                currencyCode
              }
              selectedOptions {
                name
                value
              }
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
    }
  }
}
`

// ShopQuery checks that the storefront token works at all
const ShopQuery = `
query Shop {
  shop {
    name
    primaryDomain {
      url
    }
  }
}
`
